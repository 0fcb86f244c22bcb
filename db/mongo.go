package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"inkwell/internal/logger"
)

const defaultURI = "mongodb://localhost:27017"

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init connects the global Mongo client once and ensures the posts indexes.
func Init(ctx context.Context, uri, dbName string) error {
	var initErr error
	clientOnce.Do(func() {
		if uri == "" {
			// Fallback for local docker-compose default
			uri = defaultURI
		}
		if dbName == "" {
			dbName = "inkwell"
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			initErr = err
			return
		}
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			_ = cl.Disconnect(context.Background())
			initErr = err
			return
		}
		client = cl
		db = client.Database(dbName)

		if err := ensureIndexes(ctx, db); err != nil {
			initErr = err
			return
		}
		logger.InfoWithFields("MongoDB connected and indexes ensured", logger.Fields{"db": dbName})
	})
	return initErr
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

// Close disconnects the global client if one was opened.
func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	posts := d.Collection("posts")
	_, err := posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "is_published", Value: 1}},
			Options: options.Index().SetName("idx_category_published"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("idx_author_id"),
		},
	})
	return err
}
