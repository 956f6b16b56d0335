package mongodb

import (
	"context"

	"skill-ledger/internal/domain/searchlog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SearchLogRepository struct {
	coll *mongo.Collection
}

func NewSearchLogRepository(db *DB) *SearchLogRepository {
	return &SearchLogRepository{coll: db.Database().Collection(collSearchLog)}
}

func (r *SearchLogRepository) Increment(ctx context.Context, k searchlog.Key) error {
	filter := bson.M{"date": k.Date, "loc": k.Location, "query": k.Query}
	_, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"count": 1}}, options.Update().SetUpsert(true))
	return err
}

func (r *SearchLogRepository) CountsByDate(ctx context.Context) ([]searchlog.Count, error) {
	return r.countsBy(ctx, "$date")
}

func (r *SearchLogRepository) CountsByLocation(ctx context.Context) ([]searchlog.Count, error) {
	return r.countsBy(ctx, "$loc")
}

func (r *SearchLogRepository) countsBy(ctx context.Context, dimField string) ([]searchlog.Count, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "query", Value: "$query"}, {Key: "dim", Value: dimField}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: "$count"}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID struct {
			Query string `bson:"query"`
			Dim   string `bson:"dim"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]searchlog.Count, 0, len(rows))
	for _, row := range rows {
		out = append(out, searchlog.Count{Query: row.ID.Query, Dim: row.ID.Dim, Count: row.Count})
	}
	return out, nil
}
