package mongodb

import (
	"context"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const employeeCollectionName = "employees"

// EmployeeRepository implements domain.EmployeeRepository using MongoDB.
type EmployeeRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewEmployeeRepository(db *mongo.Database, log *logger.Logger) *EmployeeRepository {
	collection := db.Collection(employeeCollectionName)
	repoLogger := log.Named("EmployeeRepository")
	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "employee_code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "department", Value: 1}}},
	}, repoLogger)
	return &EmployeeRepository{collection: collection, logger: repoLogger}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	now := time.Now().UTC()
	employee.CreatedAt, employee.UpdatedAt = now, now

	doc, err := fromDomainEmployee(employee)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Warn("Failed to insert employee", zap.String("employee_code", employee.EmployeeCode), zap.Error(err))
		return mapWriteError(err, "employee code")
	}
	employee.ID = doc.ID.Hex()
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc employeeDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	doc, err := fromDomainEmployee(employee)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"employee_code":   doc.EmployeeCode,
		"first_name":      doc.FirstName,
		"last_name":       doc.LastName,
		"email":           doc.Email,
		"phone":           doc.Phone,
		"department":      doc.Department,
		"designation":     doc.Designation,
		"employment_type": doc.EmploymentType,
		"status":          doc.Status,
		"join_date":       doc.JoinDate,
		"salary":          doc.Salary,
		"currency":        doc.Currency,
		"bank_account":    doc.BankAccount,
		"updated_at":      doc.UpdatedAt,
	}})
	if err != nil {
		return mapWriteError(err, "employee code")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddDocument appends an uploaded object key to the employee's documents.
func (r *EmployeeRepository) AddDocument(ctx context.Context, id, key string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"documents": key},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return mapWriteError(err, "employee document")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapWriteError(err, "employee")
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, int64, error) {
	query := baseQuery(filter.ListFilter, "first_name", "last_name", "email", "employee_code", "designation")
	if filter.Department != "" {
		query["department"] = filter.Department
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	docs, total, err := findPage[employeeDocument](ctx, r.collection, query, filter.ListFilter, bson.D{{Key: "employee_code", Value: 1}}, r.logger)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Employee, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}

func (r *EmployeeRepository) CountByStatus(ctx context.Context, orgID string) (map[domain.EmployeeStatus]int64, error) {
	raw, err := countByField(ctx, r.collection, orgID, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.EmployeeStatus]int64, len(raw))
	for k, v := range raw {
		out[domain.EmployeeStatus(k)] = v
	}
	return out, nil
}
