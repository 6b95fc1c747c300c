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

const organizationCollectionName = "organizations"

// OrganizationRepository implements domain.OrganizationRepository using MongoDB.
type OrganizationRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewOrganizationRepository(db *mongo.Database, log *logger.Logger) *OrganizationRepository {
	collection := db.Collection(organizationCollectionName)
	repoLogger := log.Named("OrganizationRepository")
	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}, repoLogger)
	return &OrganizationRepository{collection: collection, logger: repoLogger}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	now := time.Now().UTC()
	org.CreatedAt, org.UpdatedAt = now, now

	doc, err := fromDomainOrganization(org)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Warn("Failed to insert organization", zap.String("slug", org.Slug), zap.Error(err))
		return mapWriteError(err, "organization slug")
	}
	org.ID = doc.ID.Hex()
	return nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc organizationDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	return doc.toDomain(), nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	oid, err := parseID(org.ID)
	if err != nil {
		return err
	}
	org.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":          org.Name,
		"slug":          org.Slug,
		"contact_email": org.ContactEmail,
		"address":       org.Address,
		"currency":      org.Currency,
		"is_active":     org.IsActive,
		"updated_at":    org.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return mapWriteError(err, "organization slug")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapWriteError(err, "organization")
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("Organization deleted", zap.String("organization_id", id))
	return nil
}

// List pages organizations. OrganizationID in the filter restricts the result to that single tenant.
func (r *OrganizationRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Organization, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		query["$or"] = searchClause(filter.Search, "name", "slug", "contact_email")
	}
	if filter.OrganizationID != "" {
		oid, err := parseID(filter.OrganizationID)
		if err != nil {
			return nil, 0, nil
		}
		query["_id"] = oid
	}
	docs, total, err := findPage[organizationDocument](ctx, r.collection, query, filter, bson.D{{Key: "name", Value: 1}}, r.logger)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Organization, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}
