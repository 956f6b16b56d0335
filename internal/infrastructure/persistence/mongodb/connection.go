package mongodb

import (
	"context"
	"fmt"
	"time"

	"skill-ledger/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultDatabase = "orange"

	collEmployees = "employees"
	collSkillMeta = "skillsList"
	collSearchLog = "searchLog"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	name, err := databaseName(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &DB{client: client, db: client.Database(name)}, nil
}

// databaseName prefers the explicit setting, then the path of the URI.
func databaseName(cfg config.MongoConfig) (string, error) {
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	cs, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return defaultDatabase, nil
}

func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.client == nil {
		return fmt.Errorf("nil db")
	}
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close(ctx context.Context) error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}

func (d *DB) Database() *mongo.Database {
	if d == nil {
		return nil
	}
	return d.db
}

// EnsureIndexes creates the lookup and counter indexes. It is idempotent.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	if _, err := d.db.Collection(collEmployees).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_1").SetSparse(true)},
		{Keys: bson.D{{Key: "skills.managerId", Value: 1}, {Key: "skills.confirmed", Value: 1}}, Options: options.Index().SetName("skills_manager_pending")},
	}); err != nil {
		return fmt.Errorf("employees indexes: %w", err)
	}

	if _, err := d.db.Collection(collSearchLog).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}, {Key: "loc", Value: 1}, {Key: "query", Value: 1}},
		Options: options.Index().SetName("date_loc_query").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("searchLog index: %w", err)
	}
	return nil
}
