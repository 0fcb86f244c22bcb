package repositories

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"inkwell/models"
)

type MongoPostRepository struct {
	col *mongo.Collection
}

var (
	_ PostRepository = (*MongoPostRepository)(nil)
	_ Pinger         = (*MongoPostRepository)(nil)
)

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{col: db.Collection("posts")}
}

// listFilter builds the bson filter shared by List and its count.
func listFilter(opts ListPostsOptions) bson.M {
	filter := bson.M{}
	if opts.PublishedOnly {
		filter["is_published"] = true
	}
	if opts.Category != "" && !opts.Category.IsFilterOnly() {
		filter["category"] = opts.Category
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"excerpt": re},
			bson.M{"content": re},
		}
	}
	return filter
}

func (r *MongoPostRepository) List(ctx context.Context, opts ListPostsOptions) ([]models.Post, int, error) {
	filter := listFilter(opts)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := make([]models.Post, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, int(total), nil
}

func (r *MongoPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	cur, err := r.col.Find(ctx, bson.M{"author_id": authorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Post, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoPostRepository) Insert(ctx context.Context, p *models.Post) error {
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *MongoPostRepository) Replace(ctx context.Context, p *models.Post) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) IncrementLikes(ctx context.Context, id string) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"likes_count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, readpref.Primary())
}
