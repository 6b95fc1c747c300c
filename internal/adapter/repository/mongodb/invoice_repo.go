package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const invoiceCollectionName = "invoices"

// InvoiceRepository implements domain.InvoiceRepository using MongoDB.
type InvoiceRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewInvoiceRepository(db *mongo.Database, log *logger.Logger) *InvoiceRepository {
	collection := db.Collection(invoiceCollectionName)
	repoLogger := log.Named("InvoiceRepository")
	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "invoice_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "issue_date", Value: -1}}},
	}, repoLogger)
	return &InvoiceRepository{collection: collection, logger: repoLogger}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	now := time.Now().UTC()
	invoice.CreatedAt, invoice.UpdatedAt = now, now

	doc, err := fromDomainInvoice(invoice)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err, "invoice number")
	}
	invoice.ID = doc.ID.Hex()
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc invoiceDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	return doc.toDomain(), nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()
	doc, err := fromDomainInvoice(invoice)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"invoice_number": doc.InvoiceNumber,
		"vendor_name":    doc.VendorName,
		"description":    doc.Description,
		"category":       doc.Category,
		"items":          doc.Items,
		"subtotal":       doc.Subtotal,
		"tax":            doc.Tax,
		"total":          doc.Total,
		"currency":       doc.Currency,
		"issue_date":     doc.IssueDate,
		"due_date":       doc.DueDate,
		"status":         doc.Status,
		"updated_at":     doc.UpdatedAt,
	}})
	if err != nil {
		return mapWriteError(err, "invoice number")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) SetStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	return r.set(ctx, id, bson.M{"status": string(status)})
}

func (r *InvoiceRepository) SetAttachment(ctx context.Context, id, key, url string) error {
	return r.set(ctx, id, bson.M{"attachment_key": key, "attachment_url": url})
}

func (r *InvoiceRepository) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	fields["updated_at"] = time.Now().UTC()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return mapWriteError(err, "invoice")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapWriteError(err, "invoice")
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, int64, error) {
	query := baseQuery(filter.ListFilter, "invoice_number", "vendor_name", "description", "category")
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.VendorName != "" {
		query["vendor_name"] = filter.VendorName
	}
	if filter.From != nil || filter.To != nil {
		query["issue_date"] = timeRange(filter.From, filter.To)
	}
	docs, total, err := findPage[invoiceDocument](ctx, r.collection, query, filter.ListFilter, bson.D{{Key: "issue_date", Value: -1}, {Key: "created_at", Value: -1}}, r.logger)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Invoice, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}

func (r *InvoiceRepository) TotalsByStatus(ctx context.Context, orgID string) (map[domain.InvoiceStatus]domain.StatusTotal, error) {
	match := bson.M{}
	if orgID != "" {
		match["organization_id"] = orgID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$status",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$total"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID     string `bson:"_id"`
		Count  int64  `bson:"count"`
		Amount any    `bson:"amount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	out := make(map[domain.InvoiceStatus]domain.StatusTotal, len(rows))
	for _, row := range rows {
		out[domain.InvoiceStatus(row.ID)] = domain.StatusTotal{Count: row.Count, Amount: decimalFromAny(row.Amount)}
	}
	return out, nil
}
