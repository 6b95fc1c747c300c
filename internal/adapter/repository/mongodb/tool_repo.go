package mongodb

import (
	"context"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const toolCollectionName = "tools"

// ToolRepository implements domain.ToolRepository using MongoDB.
type ToolRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewToolRepository(db *mongo.Database, log *logger.Logger) *ToolRepository {
	collection := db.Collection(toolCollectionName)
	repoLogger := log.Named("ToolRepository")
	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "renewal_date", Value: 1}}, Options: options.Index().SetSparse(true)},
	}, repoLogger)
	return &ToolRepository{collection: collection, logger: repoLogger}
}

func (r *ToolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	now := time.Now().UTC()
	tool.CreatedAt, tool.UpdatedAt = now, now

	doc, err := fromDomainTool(tool)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err, "tool")
	}
	tool.ID = doc.ID.Hex()
	tool.HasPassword = tool.SealedPassword != ""
	return nil
}

func (r *ToolRepository) GetByID(ctx context.Context, id string) (*domain.Tool, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc toolDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	return doc.toDomain(), nil
}

func (r *ToolRepository) Update(ctx context.Context, tool *domain.Tool) error {
	tool.UpdatedAt = time.Now().UTC()
	doc, err := fromDomainTool(tool)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"name":            doc.Name,
		"category":        doc.Category,
		"url":             doc.URL,
		"username":        doc.Username,
		"sealed_password": doc.SealedPassword,
		"notes":           doc.Notes,
		"assigned_to":     doc.AssignedTo,
		"cost":            doc.Cost,
		"billing_cycle":   doc.BillingCycle,
		"renewal_date":    doc.RenewalDate,
		"updated_at":      doc.UpdatedAt,
	}})
	if err != nil {
		return mapWriteError(err, "tool")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	tool.HasPassword = tool.SealedPassword != ""
	return nil
}

func (r *ToolRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapWriteError(err, "tool")
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ToolRepository) List(ctx context.Context, filter domain.ToolFilter) ([]*domain.Tool, int64, error) {
	query := baseQuery(filter.ListFilter, "name", "category", "url", "username")
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	docs, total, err := findPage[toolDocument](ctx, r.collection, query, filter.ListFilter, bson.D{{Key: "name", Value: 1}}, r.logger)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Tool, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}

func (r *ToolRepository) Count(ctx context.Context, orgID string) (int64, error) {
	query := bson.M{}
	if orgID != "" {
		query["organization_id"] = orgID
	}
	n, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, mapFindError(err)
	}
	return n, nil
}
