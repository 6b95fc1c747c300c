package mongodb

import (
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type organizationDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Slug         string             `bson:"slug"`
	ContactEmail string             `bson:"contact_email,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Currency     string             `bson:"currency"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func fromDomainOrganization(o *domain.Organization) (*organizationDocument, error) {
	id, err := newID(o.ID)
	if err != nil {
		return nil, err
	}
	return &organizationDocument{
		ID:           id,
		Name:         o.Name,
		Slug:         o.Slug,
		ContactEmail: o.ContactEmail,
		Address:      o.Address,
		Currency:     o.Currency,
		IsActive:     o.IsActive,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}, nil
}

func (d *organizationDocument) toDomain() *domain.Organization {
	return &domain.Organization{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Slug:         d.Slug,
		ContactEmail: d.ContactEmail,
		Address:      d.Address,
		Currency:     d.Currency,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type userDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	OrganizationID string             `bson:"organization_id,omitempty"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	PasswordHash   string             `bson:"password_hash"`
	Role           string             `bson:"role"`
	Permissions    domain.Permissions `bson:"permissions,omitempty"`
	IsActive       bool               `bson:"is_active"`
	EmailVerified  bool               `bson:"email_verified"`
	LastLoginAt    *time.Time         `bson:"last_login_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func fromDomainUser(u *domain.User) (*userDocument, error) {
	id, err := newID(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:             id,
		OrganizationID: u.OrganizationID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		Permissions:    u.Permissions,
		IsActive:       u.IsActive,
		EmailVerified:  u.EmailVerified,
		LastLoginAt:    utcPtr(u.LastLoginAt),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}, nil
}

func (d *userDocument) toDomain() *domain.User {
	perms := d.Permissions
	if perms == nil {
		perms = domain.Permissions{}
	}
	return &domain.User{
		ID:             d.ID.Hex(),
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Role:           domain.Role(d.Role),
		Permissions:    perms,
		IsActive:       d.IsActive,
		EmailVerified:  d.EmailVerified,
		LastLoginAt:    d.LastLoginAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type bankAccountDocument struct {
	BankName      string `bson:"bank_name,omitempty"`
	AccountName   string `bson:"account_name,omitempty"`
	AccountNumber string `bson:"account_number,omitempty"`
	RoutingCode   string `bson:"routing_code,omitempty"`
}

type employeeDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	OrganizationID string               `bson:"organization_id"`
	EmployeeCode   string               `bson:"employee_code"`
	FirstName      string               `bson:"first_name"`
	LastName       string               `bson:"last_name"`
	Email          string               `bson:"email,omitempty"`
	Phone          string               `bson:"phone,omitempty"`
	Department     string               `bson:"department,omitempty"`
	Designation    string               `bson:"designation,omitempty"`
	EmploymentType string               `bson:"employment_type"`
	Status         string               `bson:"status"`
	JoinDate       *time.Time           `bson:"join_date,omitempty"`
	Salary         primitive.Decimal128 `bson:"salary"`
	Currency       string               `bson:"currency"`
	BankAccount    bankAccountDocument  `bson:"bank_account"`
	Documents      []string             `bson:"documents"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func fromDomainEmployee(e *domain.Employee) (*employeeDocument, error) {
	id, err := newID(e.ID)
	if err != nil {
		return nil, err
	}
	var amounts decimalFields
	docs := e.Documents
	if docs == nil {
		docs = []string{}
	}
	doc := &employeeDocument{
		ID:             id,
		OrganizationID: e.OrganizationID,
		EmployeeCode:   e.EmployeeCode,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Phone:          e.Phone,
		Department:     e.Department,
		Designation:    e.Designation,
		EmploymentType: string(e.EmploymentType),
		Status:         string(e.Status),
		JoinDate:       utcPtr(e.JoinDate),
		Salary:         amounts.put("salary", e.Salary),
		Currency:       e.Currency,
		BankAccount:    bankAccountDocument(e.BankAccount),
		Documents:      docs,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if amounts.err != nil {
		return nil, amounts.err
	}
	return doc, nil
}

func (d *employeeDocument) toDomain() *domain.Employee {
	docs := d.Documents
	if docs == nil {
		docs = []string{}
	}
	return &domain.Employee{
		ID:             d.ID.Hex(),
		OrganizationID: d.OrganizationID,
		EmployeeCode:   d.EmployeeCode,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		Phone:          d.Phone,
		Department:     d.Department,
		Designation:    d.Designation,
		EmploymentType: domain.EmploymentType(d.EmploymentType),
		Status:         domain.EmployeeStatus(d.Status),
		JoinDate:       d.JoinDate,
		Salary:         fromDecimal128(d.Salary),
		Currency:       d.Currency,
		BankAccount:    domain.BankAccount(d.BankAccount),
		Documents:      docs,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type toolDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	OrganizationID string               `bson:"organization_id"`
	Name           string               `bson:"name"`
	Category       string               `bson:"category,omitempty"`
	URL            string               `bson:"url,omitempty"`
	Username       string               `bson:"username,omitempty"`
	SealedPassword string               `bson:"sealed_password,omitempty"`
	Notes          string               `bson:"notes,omitempty"`
	AssignedTo     []string             `bson:"assigned_to"`
	Cost           primitive.Decimal128 `bson:"cost"`
	BillingCycle   string               `bson:"billing_cycle"`
	RenewalDate    *time.Time           `bson:"renewal_date,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func fromDomainTool(t *domain.Tool) (*toolDocument, error) {
	id, err := newID(t.ID)
	if err != nil {
		return nil, err
	}
	var amounts decimalFields
	assigned := t.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	doc := &toolDocument{
		ID:             id,
		OrganizationID: t.OrganizationID,
		Name:           t.Name,
		Category:       t.Category,
		URL:            t.URL,
		Username:       t.Username,
		SealedPassword: t.SealedPassword,
		Notes:          t.Notes,
		AssignedTo:     assigned,
		Cost:           amounts.put("cost", t.Cost),
		BillingCycle:   string(t.BillingCycle),
		RenewalDate:    utcPtr(t.RenewalDate),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if amounts.err != nil {
		return nil, amounts.err
	}
	return doc, nil
}

func (d *toolDocument) toDomain() *domain.Tool {
	assigned := d.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return &domain.Tool{
		ID:             d.ID.Hex(),
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Category:       d.Category,
		URL:            d.URL,
		Username:       d.Username,
		SealedPassword: d.SealedPassword,
		HasPassword:    d.SealedPassword != "",
		Notes:          d.Notes,
		AssignedTo:     assigned,
		Cost:           fromDecimal128(d.Cost),
		BillingCycle:   domain.BillingCycle(d.BillingCycle),
		RenewalDate:    d.RenewalDate,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type lineItemDocument struct {
	Description string               `bson:"description"`
	Quantity    primitive.Decimal128 `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
}

type invoiceDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	OrganizationID string               `bson:"organization_id"`
	InvoiceNumber  string               `bson:"invoice_number"`
	VendorName     string               `bson:"vendor_name"`
	Description    string               `bson:"description,omitempty"`
	Category       string               `bson:"category,omitempty"`
	Items          []lineItemDocument   `bson:"items"`
	Subtotal       primitive.Decimal128 `bson:"subtotal"`
	Tax            primitive.Decimal128 `bson:"tax"`
	Total          primitive.Decimal128 `bson:"total"`
	Currency       string               `bson:"currency"`
	IssueDate      *time.Time           `bson:"issue_date,omitempty"`
	DueDate        *time.Time           `bson:"due_date,omitempty"`
	Status         string               `bson:"status"`
	AttachmentKey  string               `bson:"attachment_key,omitempty"`
	AttachmentURL  string               `bson:"attachment_url,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func fromDomainInvoice(inv *domain.Invoice) (*invoiceDocument, error) {
	id, err := newID(inv.ID)
	if err != nil {
		return nil, err
	}
	var amounts decimalFields
	items := make([]lineItemDocument, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = lineItemDocument{
			Description: item.Description,
			Quantity:    amounts.put("quantity", item.Quantity),
			UnitPrice:   amounts.put("unit_price", item.UnitPrice),
		}
	}
	doc := &invoiceDocument{
		ID:             id,
		OrganizationID: inv.OrganizationID,
		InvoiceNumber:  inv.InvoiceNumber,
		VendorName:     inv.VendorName,
		Description:    inv.Description,
		Category:       inv.Category,
		Items:          items,
		Subtotal:       amounts.put("subtotal", inv.Subtotal),
		Tax:            amounts.put("tax", inv.Tax),
		Total:          amounts.put("total", inv.Total),
		Currency:       inv.Currency,
		IssueDate:      utcPtr(inv.IssueDate),
		DueDate:        utcPtr(inv.DueDate),
		Status:         string(inv.Status),
		AttachmentKey:  inv.AttachmentKey,
		AttachmentURL:  inv.AttachmentURL,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	if amounts.err != nil {
		return nil, amounts.err
	}
	return doc, nil
}

func (d *invoiceDocument) toDomain() *domain.Invoice {
	items := make([]domain.LineItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = domain.LineItem{
			Description: item.Description,
			Quantity:    fromDecimal128(item.Quantity),
			UnitPrice:   fromDecimal128(item.UnitPrice),
		}
	}
	return &domain.Invoice{
		ID:             d.ID.Hex(),
		OrganizationID: d.OrganizationID,
		InvoiceNumber:  d.InvoiceNumber,
		VendorName:     d.VendorName,
		Description:    d.Description,
		Category:       d.Category,
		Items:          items,
		Subtotal:       fromDecimal128(d.Subtotal),
		Tax:            fromDecimal128(d.Tax),
		Total:          fromDecimal128(d.Total),
		Currency:       d.Currency,
		IssueDate:      d.IssueDate,
		DueDate:        d.DueDate,
		Status:         domain.InvoiceStatus(d.Status),
		AttachmentKey:  d.AttachmentKey,
		AttachmentURL:  d.AttachmentURL,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type paymentDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	OrganizationID string               `bson:"organization_id"`
	Type           string               `bson:"type"`
	EmployeeID     string               `bson:"employee_id,omitempty"`
	InvoiceID      string               `bson:"invoice_id,omitempty"`
	Period         string               `bson:"period,omitempty"`
	Amount         primitive.Decimal128 `bson:"amount"`
	Currency       string               `bson:"currency"`
	Method         string               `bson:"method"`
	Status         string               `bson:"status"`
	PaidAt         *time.Time           `bson:"paid_at,omitempty"`
	Reference      string               `bson:"reference,omitempty"`
	Notes          string               `bson:"notes,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func fromDomainPayment(p *domain.Payment) (*paymentDocument, error) {
	id, err := newID(p.ID)
	if err != nil {
		return nil, err
	}
	var amounts decimalFields
	doc := &paymentDocument{
		ID:             id,
		OrganizationID: p.OrganizationID,
		Type:           string(p.Type),
		EmployeeID:     p.EmployeeID,
		InvoiceID:      p.InvoiceID,
		Period:         p.Period,
		Amount:         amounts.put("amount", p.Amount),
		Currency:       p.Currency,
		Method:         string(p.Method),
		Status:         string(p.Status),
		PaidAt:         utcPtr(p.PaidAt),
		Reference:      p.Reference,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if amounts.err != nil {
		return nil, amounts.err
	}
	return doc, nil
}

func (d *paymentDocument) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:             d.ID.Hex(),
		OrganizationID: d.OrganizationID,
		Type:           domain.PaymentType(d.Type),
		EmployeeID:     d.EmployeeID,
		InvoiceID:      d.InvoiceID,
		Period:         d.Period,
		Amount:         fromDecimal128(d.Amount),
		Currency:       d.Currency,
		Method:         domain.PaymentMethod(d.Method),
		Status:         domain.PaymentStatus(d.Status),
		PaidAt:         d.PaidAt,
		Reference:      d.Reference,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type assetDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	OrganizationID string               `bson:"organization_id"`
	AssetTag       string               `bson:"asset_tag"`
	Name           string               `bson:"name"`
	Category       string               `bson:"category"`
	SerialNumber   string               `bson:"serial_number,omitempty"`
	PurchaseDate   *time.Time           `bson:"purchase_date,omitempty"`
	PurchaseCost   primitive.Decimal128 `bson:"purchase_cost"`
	Status         string               `bson:"status"`
	AssignedTo     string               `bson:"assigned_to,omitempty"`
	AssignedAt     *time.Time           `bson:"assigned_at,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func fromDomainAsset(a *domain.Asset) (*assetDocument, error) {
	id, err := newID(a.ID)
	if err != nil {
		return nil, err
	}
	var amounts decimalFields
	doc := &assetDocument{
		ID:             id,
		OrganizationID: a.OrganizationID,
		AssetTag:       a.AssetTag,
		Name:           a.Name,
		Category:       string(a.Category),
		SerialNumber:   a.SerialNumber,
		PurchaseDate:   utcPtr(a.PurchaseDate),
		PurchaseCost:   amounts.put("purchase_cost", a.PurchaseCost),
		Status:         string(a.Status),
		AssignedTo:     a.AssignedTo,
		AssignedAt:     utcPtr(a.AssignedAt),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if amounts.err != nil {
		return nil, amounts.err
	}
	return doc, nil
}

func (d *assetDocument) toDomain() *domain.Asset {
	return &domain.Asset{
		ID:             d.ID.Hex(),
		OrganizationID: d.OrganizationID,
		AssetTag:       d.AssetTag,
		Name:           d.Name,
		Category:       domain.AssetCategory(d.Category),
		SerialNumber:   d.SerialNumber,
		PurchaseDate:   d.PurchaseDate,
		PurchaseCost:   fromDecimal128(d.PurchaseCost),
		Status:         domain.AssetStatus(d.Status),
		AssignedTo:     d.AssignedTo,
		AssignedAt:     d.AssignedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type auditDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	OrganizationID string             `bson:"organization_id,omitempty"`
	UserID         string             `bson:"user_id,omitempty"`
	UserEmail      string             `bson:"user_email,omitempty"`
	Role           string             `bson:"role,omitempty"`
	Action         string             `bson:"action"`
	Module         string             `bson:"module"`
	ResourceID     string             `bson:"resource_id,omitempty"`
	Method         string             `bson:"method,omitempty"`
	Path           string             `bson:"path,omitempty"`
	StatusCode     int                `bson:"status_code,omitempty"`
	IP             string             `bson:"ip,omitempty"`
	UserAgent      string             `bson:"user_agent,omitempty"`
	Timestamp      time.Time          `bson:"timestamp"`
}

func fromDomainAudit(a *domain.AuditLog) *auditDocument {
	return &auditDocument{
		ID:             primitive.NewObjectID(),
		OrganizationID: a.OrganizationID,
		UserID:         a.UserID,
		UserEmail:      a.UserEmail,
		Role:           string(a.Role),
		Action:         string(a.Action),
		Module:         a.Module,
		ResourceID:     a.ResourceID,
		Method:         a.Method,
		Path:           a.Path,
		StatusCode:     a.StatusCode,
		IP:             a.IP,
		UserAgent:      a.UserAgent,
		Timestamp:      a.Timestamp.UTC(),
	}
}

func (d *auditDocument) toDomain() *domain.AuditLog {
	return &domain.AuditLog{
		ID:             d.ID.Hex(),
		OrganizationID: d.OrganizationID,
		UserID:         d.UserID,
		UserEmail:      d.UserEmail,
		Role:           domain.Role(d.Role),
		Action:         domain.AuditAction(d.Action),
		Module:         d.Module,
		ResourceID:     d.ResourceID,
		Method:         d.Method,
		Path:           d.Path,
		StatusCode:     d.StatusCode,
		IP:             d.IP,
		UserAgent:      d.UserAgent,
		Timestamp:      d.Timestamp,
	}
}
