package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const paymentCollectionName = "payments"

// PaymentRepository implements domain.PaymentRepository using MongoDB.
type PaymentRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewPaymentRepository(db *mongo.Database, log *logger.Logger) *PaymentRepository {
	collection := db.Collection(paymentCollectionName)
	repoLogger := log.Named("PaymentRepository")
	ensureIndexes(collection, []mongo.IndexModel{
		{
			// One salary payment per employee and period. A failed one is retried by updating it.
			Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "period", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_salary_period").
				SetPartialFilterExpression(bson.M{"type": string(domain.PaymentSalary)}),
		},
		{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "paid_at", Value: -1}}},
	}, repoLogger)
	return &PaymentRepository{collection: collection, logger: repoLogger}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	now := time.Now().UTC()
	payment.CreatedAt, payment.UpdatedAt = now, now

	doc, err := fromDomainPayment(payment)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err, "salary payment for this employee and period")
	}
	payment.ID = doc.ID.Hex()
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc paymentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	return doc.toDomain(), nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	doc, err := fromDomainPayment(payment)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"type":        doc.Type,
		"employee_id": doc.EmployeeID,
		"invoice_id":  doc.InvoiceID,
		"period":      doc.Period,
		"amount":      doc.Amount,
		"currency":    doc.Currency,
		"method":      doc.Method,
		"status":      doc.Status,
		"paid_at":     doc.PaidAt,
		"reference":   doc.Reference,
		"notes":       doc.Notes,
		"updated_at":  doc.UpdatedAt,
	}})
	if err != nil {
		return mapWriteError(err, "salary payment for this employee and period")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapWriteError(err, "payment")
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, int64, error) {
	query := baseQuery(filter.ListFilter, "reference", "notes", "period")
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.EmployeeID != "" {
		query["employee_id"] = filter.EmployeeID
	}
	if filter.InvoiceID != "" {
		query["invoice_id"] = filter.InvoiceID
	}
	if filter.Period != "" {
		query["period"] = filter.Period
	}
	docs, total, err := findPage[paymentDocument](ctx, r.collection, query, filter.ListFilter, bson.D{{Key: "created_at", Value: -1}}, r.logger)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Payment, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}

func (r *PaymentRepository) SumCompletedForInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	total, err := r.sum(ctx, bson.M{"invoice_id": invoiceID, "status": string(domain.PaymentCompleted)})
	if err != nil {
		return decimal.Zero, err
	}
	return total.Amount, nil
}

func (r *PaymentRepository) SumCompleted(ctx context.Context, orgID string, from, to time.Time) (domain.StatusTotal, error) {
	match := bson.M{
		"status":  string(domain.PaymentCompleted),
		"paid_at": timeRange(&from, &to),
	}
	if orgID != "" {
		match["organization_id"] = orgID
	}
	return r.sum(ctx, match)
}

func (r *PaymentRepository) sum(ctx context.Context, match bson.M) (domain.StatusTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.StatusTotal{}, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count  int64 `bson:"count"`
		Amount any   `bson:"amount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return domain.StatusTotal{}, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if len(rows) == 0 {
		return domain.StatusTotal{Amount: decimal.Zero}, nil
	}
	return domain.StatusTotal{Count: rows[0].Count, Amount: decimalFromAny(rows[0].Amount)}, nil
}
