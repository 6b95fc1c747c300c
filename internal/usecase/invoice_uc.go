package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/sanitize"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InvoiceInput struct {
	OrganizationID string                `json:"organization_id"`
	InvoiceNumber  *string               `json:"invoice_number" validate:"omitempty,max=60"`
	VendorName     *string               `json:"vendor_name" validate:"omitempty,max=160"`
	Description    *string               `json:"description" validate:"omitempty,max=2000"`
	Category       *string               `json:"category" validate:"omitempty,max=60"`
	Items          []domain.LineItem     `json:"items" validate:"omitempty,dive"`
	Tax            *decimal.Decimal      `json:"tax"`
	Total          *decimal.Decimal      `json:"total"`
	Currency       *string               `json:"currency" validate:"omitempty,len=3"`
	IssueDate      *Date                 `json:"issue_date"`
	DueDate        *Date                 `json:"due_date"`
	Status         *domain.InvoiceStatus `json:"status"`
}

// InvoiceUsecase manages vendor invoices and their lifecycle.
type InvoiceUsecase struct {
	invoices  domain.InvoiceRepository
	files     *FileUsecase
	publisher EventPublisher
	logger    *logger.Logger
}

func NewInvoiceUsecase(invoices domain.InvoiceRepository, files *FileUsecase, publisher EventPublisher, log *logger.Logger) *InvoiceUsecase {
	return &InvoiceUsecase{invoices: invoices, files: files, publisher: publisher, logger: log.Named("InvoiceUsecase")}
}

func (uc *InvoiceUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.InvoiceFilter) (*domain.Page[*domain.Invoice], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	items, total, err := uc.invoices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, filter.ListFilter), nil
}

func (uc *InvoiceUsecase) load(ctx context.Context, actor *domain.Actor, id string) (*domain.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loadScoped(actor, inv, inv.OrganizationID, nil)
}

// Get returns an invoice with a fresh download link for its attachment.
func (uc *InvoiceUsecase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Invoice, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if inv.AttachmentKey != "" {
		if url, err := uc.files.storage.PresignedURL(ctx, inv.AttachmentKey, uc.files.urlTTL); err == nil {
			inv.AttachmentURL = url
		} else {
			uc.logger.Warn("Failed to presign invoice attachment", zap.String("invoice_id", inv.ID), zap.Error(err))
		}
	}
	return inv, nil
}

func applyInvoice(inv *domain.Invoice, in InvoiceInput) {
	setString(&inv.InvoiceNumber, in.InvoiceNumber)
	setString(&inv.VendorName, in.VendorName)
	setString(&inv.Description, in.Description)
	setString(&inv.Category, in.Category)
	if in.Items != nil {
		items := make([]domain.LineItem, len(in.Items))
		for i, item := range in.Items {
			item.Description = sanitize.Text(item.Description)
			items[i] = item
		}
		inv.Items = items
	}
	if in.Tax != nil {
		inv.Tax = *in.Tax
	}
	if in.Total != nil {
		inv.Total = *in.Total
	}
	if in.Currency != nil {
		inv.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	setDate(&inv.IssueDate, in.IssueDate)
	setDate(&inv.DueDate, in.DueDate)
}

// Create stores a new invoice. New invoices start as draft, pending or overdue.
func (uc *InvoiceUsecase) Create(ctx context.Context, actor *domain.Actor, in InvoiceInput) (*domain.Invoice, error) {
	org, err := actor.OrganizationForCreate(in.OrganizationID)
	if err != nil {
		return nil, err
	}
	inv := &domain.Invoice{OrganizationID: org, Items: []domain.LineItem{}}
	applyInvoice(inv, in)
	if in.Status != nil {
		if in.Status.IsTerminal() {
			return nil, fmt.Errorf("%w: an invoice cannot be created as %s", domain.ErrInvalidInput, *in.Status)
		}
		inv.Status = *in.Status
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	uc.logger.Info("Invoice created", zap.String("invoice_id", inv.ID), zap.String("total", inv.Total.String()))
	return inv, nil
}

// Update edits an invoice. Status changes go through SetStatus.
func (uc *InvoiceUsecase) Update(ctx context.Context, actor *domain.Actor, id string, in InvoiceInput) (*domain.Invoice, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePaid {
		return nil, fmt.Errorf("%w: paid invoices cannot be edited", domain.ErrConflict)
	}
	if in.Status != nil && *in.Status != inv.Status {
		return nil, fmt.Errorf("%w: use the status endpoint to change the status", domain.ErrInvalidInput)
	}
	applyInvoice(inv, in)
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	uc.logger.Info("Invoice updated", zap.String("invoice_id", inv.ID))
	return inv, nil
}

// SetStatus moves an invoice through its lifecycle. Paid and cancelled are final.
func (uc *InvoiceUsecase) SetStatus(ctx context.Context, actor *domain.Actor, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if inv.Status == status {
		return inv, nil
	}
	if !inv.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: invoice cannot move from %s to %s", domain.ErrConflict, inv.Status, status)
	}
	if err := uc.invoices.SetStatus(ctx, inv.ID, status); err != nil {
		return nil, err
	}
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()
	uc.logger.Info("Invoice status changed", zap.String("invoice_id", inv.ID), zap.String("status", string(status)))
	if status == domain.InvoicePaid {
		uc.publishPaid(ctx, inv)
	}
	return inv, nil
}

func (uc *InvoiceUsecase) publishPaid(ctx context.Context, inv *domain.Invoice) {
	if err := uc.publisher.Publish(ctx, domain.SubjectInvoicePaid, inv); err != nil {
		uc.logger.Warn("Failed to publish invoice paid event", zap.String("invoice_id", inv.ID), zap.Error(err))
	}
}

func (uc *InvoiceUsecase) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if inv.Status == domain.InvoicePaid {
		return fmt.Errorf("%w: paid invoices cannot be deleted", domain.ErrConflict)
	}
	if err := uc.invoices.Delete(ctx, inv.ID); err != nil {
		return err
	}
	if inv.AttachmentKey != "" {
		if err := uc.files.storage.Delete(ctx, inv.AttachmentKey); err != nil {
			uc.logger.Warn("Failed to remove invoice attachment", zap.String("key", inv.AttachmentKey), zap.Error(err))
		}
	}
	uc.logger.Info("Invoice deleted", zap.String("invoice_id", inv.ID))
	return nil
}

// Attach uploads the scanned invoice document, replacing any previous attachment.
func (uc *InvoiceUsecase) Attach(ctx context.Context, actor *domain.Actor, id string, in UploadInput) (*domain.StoredObject, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	obj, err := uc.files.store(ctx, tenantPrefix(inv.OrganizationID, "invoices", inv.ID), in)
	if err != nil {
		return nil, err
	}
	if err := uc.invoices.SetAttachment(ctx, inv.ID, obj.Key, obj.URL); err != nil {
		return nil, err
	}
	if inv.AttachmentKey != "" && inv.AttachmentKey != obj.Key {
		if err := uc.files.storage.Delete(ctx, inv.AttachmentKey); err != nil {
			uc.logger.Warn("Failed to remove replaced attachment", zap.String("key", inv.AttachmentKey), zap.Error(err))
		}
	}
	uc.logger.Info("Invoice attachment stored", zap.String("invoice_id", inv.ID), zap.String("key", obj.Key))
	return obj, nil
}
