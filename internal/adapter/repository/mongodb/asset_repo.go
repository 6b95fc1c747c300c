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

const assetCollectionName = "assets"

// AssetRepository implements domain.AssetRepository using MongoDB.
type AssetRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewAssetRepository(db *mongo.Database, log *logger.Logger) *AssetRepository {
	collection := db.Collection(assetCollectionName)
	repoLogger := log.Named("AssetRepository")
	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "asset_tag", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}, Options: options.Index().SetSparse(true)},
	}, repoLogger)
	return &AssetRepository{collection: collection, logger: repoLogger}
}

func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	now := time.Now().UTC()
	asset.CreatedAt, asset.UpdatedAt = now, now

	doc, err := fromDomainAsset(asset)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err, "asset tag")
	}
	asset.ID = doc.ID.Hex()
	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc assetDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	return doc.toDomain(), nil
}

// Update replaces the mutable fields, assignment included.
func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	asset.UpdatedAt = time.Now().UTC()
	doc, err := fromDomainAsset(asset)
	if err != nil {
		return err
	}
	set := bson.M{
		"asset_tag":     doc.AssetTag,
		"name":          doc.Name,
		"category":      doc.Category,
		"serial_number": doc.SerialNumber,
		"purchase_date": doc.PurchaseDate,
		"purchase_cost": doc.PurchaseCost,
		"status":        doc.Status,
		"updated_at":    doc.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if doc.AssignedTo == "" {
		update["$unset"] = bson.M{"assigned_to": "", "assigned_at": ""}
	} else {
		set["assigned_to"] = doc.AssignedTo
		set["assigned_at"] = doc.AssignedAt
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return mapWriteError(err, "asset tag")
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapWriteError(err, "asset")
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) List(ctx context.Context, filter domain.AssetFilter) ([]*domain.Asset, int64, error) {
	query := baseQuery(filter.ListFilter, "asset_tag", "name", "serial_number")
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	docs, total, err := findPage[assetDocument](ctx, r.collection, query, filter.ListFilter, bson.D{{Key: "asset_tag", Value: 1}}, r.logger)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Asset, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}

func (r *AssetRepository) CountByStatus(ctx context.Context, orgID string) (map[domain.AssetStatus]int64, error) {
	raw, err := countByField(ctx, r.collection, orgID, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.AssetStatus]int64, len(raw))
	for k, v := range raw {
		out[domain.AssetStatus(k)] = v
	}
	return out, nil
}
