package mongodb

import (
	"context"
	"errors"

	"skill-ledger/internal/domain/skillmeta"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// skillMetaID is the fixed key of the vocabulary document.
var skillMetaID = primitive.ObjectID{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}

type SkillMetaRepository struct {
	coll *mongo.Collection
}

func NewSkillMetaRepository(db *DB) *SkillMetaRepository {
	return &SkillMetaRepository{coll: db.Database().Collection(collSkillMeta)}
}

func (r *SkillMetaRepository) Get(ctx context.Context) (interface{}, error) {
	var doc struct {
		Data interface{} `bson:"data"`
	}
	if err := r.coll.FindOne(ctx, bson.M{"_id": skillMetaID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, skillmeta.ErrNotFound
		}
		return nil, err
	}
	return doc.Data, nil
}

func (r *SkillMetaRepository) Put(ctx context.Context, data interface{}) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": skillMetaID},
		bson.M{"_id": skillMetaID, "data": data},
		options.Replace().SetUpsert(true),
	)
	return err
}
