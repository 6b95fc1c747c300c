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

const auditCollectionName = "audit_logs"

// AuditRepository implements domain.AuditRepository using MongoDB.
type AuditRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewAuditRepository ensures the query indexes and, when retentionDays is
// positive, a TTL index expiring entries after that many days.
func NewAuditRepository(db *mongo.Database, log *logger.Logger, retentionDays int) *AuditRepository {
	collection := db.Collection(auditCollectionName)
	repoLogger := log.Named("AuditRepository")

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "module", Value: 1}, {Key: "action", Value: 1}}},
	}
	if retentionDays > 0 {
		ttl := int32(time.Duration(retentionDays) * 24 * time.Hour / time.Second)
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(ttl).SetName("audit_retention"),
		})
	}
	ensureIndexes(collection, indexes, repoLogger)
	return &AuditRepository{collection: collection, logger: repoLogger}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	doc := fromDomainAudit(entry)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err, "audit entry")
	}
	entry.ID = doc.ID.Hex()
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, int64, error) {
	query := baseQuery(filter.ListFilter, "user_email", "path", "resource_id")
	if filter.Module != "" {
		query["module"] = filter.Module
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Action != "" {
		query["action"] = string(filter.Action)
	}
	if filter.From != nil || filter.To != nil {
		query["timestamp"] = timeRange(filter.From, filter.To)
	}
	docs, total, err := findPage[auditDocument](ctx, r.collection, query, filter.ListFilter, bson.D{{Key: "timestamp", Value: -1}}, r.logger)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.AuditLog, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}
