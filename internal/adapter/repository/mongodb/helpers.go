package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// parseID converts a hex identifier. Malformed ids cannot match any document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", domain.ErrNotFound, id)
	}
	return oid, nil
}

func newID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NewObjectID(), nil
	}
	return parseID(id)
}

// toDecimal128 fails for values beyond 34 significant digits or the Decimal128 exponent range.
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("%w: %s does not fit a Decimal128", domain.ErrInvalidInput, d.String())
	}
	return out, nil
}

// decimalFields converts the amounts of one document and keeps the first failure.
type decimalFields struct{ err error }

func (f *decimalFields) put(field string, d decimal.Decimal) primitive.Decimal128 {
	out, err := toDecimal128(d)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("%s: %w", field, err)
	}
	return out
}

func fromDecimal128(d primitive.Decimal128) decimal.Decimal {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero
	}
	return out
}

// decimalFromAny handles aggregation results, which come back as either Decimal128 or a number.
func decimalFromAny(v any) decimal.Decimal {
	switch n := v.(type) {
	case primitive.Decimal128:
		return fromDecimal128(n)
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		return decimal.NewFromFloat(n)
	}
	return decimal.Zero
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// mapWriteError turns driver write errors into domain errors.
func mapWriteError(err error, what string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, what)
	}
	return fmt.Errorf("%w: %v", domain.ErrRepository, err)
}

func mapFindError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrRepository, err)
}

// searchClause matches term case-insensitively against any of fields.
func searchClause(term string, fields ...string) bson.A {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return or
}

// baseQuery applies tenant scope and free-text search shared by every list.
func baseQuery(f domain.ListFilter, searchFields ...string) bson.M {
	q := bson.M{}
	if f.OrganizationID != "" {
		q["organization_id"] = f.OrganizationID
	}
	if f.Search != "" && len(searchFields) > 0 {
		q["$or"] = searchClause(f.Search, searchFields...)
	}
	return q
}

func timeRange(from, to *time.Time) bson.M {
	r := bson.M{}
	if from != nil {
		r["$gte"] = from.UTC()
	}
	if to != nil {
		r["$lt"] = to.UTC()
	}
	return r
}

// findPage runs a paged query and the matching count.
func findPage[D any](ctx context.Context, coll *mongo.Collection, query bson.M, f domain.ListFilter, sort bson.D, log *logger.Logger) ([]*D, int64, error) {
	f.Normalize()
	opts := options.Find().
		SetSkip(f.Skip()).
		SetLimit(int64(f.Limit)).
		SetSort(sort)

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		log.Error("Failed to find documents", zap.String("collection", coll.Name()), zap.Error(err))
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*D
	if err := cursor.All(ctx, &docs); err != nil {
		log.Error("Failed to decode documents", zap.String("collection", coll.Name()), zap.Error(err))
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		log.Error("Failed to count documents", zap.String("collection", coll.Name()), zap.Error(err))
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return docs, total, nil
}

// ensureIndexes creates indexes and only logs failures, matching existing deployments
// where indexes may have been created by hand.
func ensureIndexes(coll *mongo.Collection, indexes []mongo.IndexModel, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes", zap.String("collection", coll.Name()), zap.Error(err))
		return
	}
	log.Debug("Indexes ensured", zap.String("collection", coll.Name()))
}

// countByField groups documents of orgID by field.
func countByField(ctx context.Context, coll *mongo.Collection, orgID, field string) (map[string]int64, error) {
	match := bson.M{}
	if orgID != "" {
		match["organization_id"] = orgID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}
