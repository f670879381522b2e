package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/collab/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postDocument is the stored shape of a post. Annotations and the set of
// viewers who muted the post live on the document itself.
type postDocument struct {
	ID        int64     `bson:"_id"`
	AuthorID  int64     `bson:"author_id"`
	Content   string    `bson:"content"`
	Readonly  bool      `bson:"readonly"`
	CreatedAt time.Time `bson:"created_at"`
	Mentions  []string  `bson:"mentions"`
	Tags      []string  `bson:"tags"`
	MutedBy   []int64   `bson:"muted_by"`
}

func (d postDocument) toModel() models.Post {
	return models.Post{
		ID:        uint(d.ID),
		AuthorID:  uint(d.AuthorID),
		Content:   d.Content,
		Readonly:  d.Readonly,
		CreatedAt: d.CreatedAt,
		Mentions:  nonNil(d.Mentions),
		Tags:      nonNil(d.Tags),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		collection: db.Collection("posts"),
		counters:   db.Collection("counters"),
	}
}

// EnsureIndexes creates the indexes the feed queries rely on.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "mentions", Value: 1}}},
	})
	return err
}

// nextID hands out monotonically increasing post ids.
func (r *MongoPostRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "posts"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	return counter.Seq, err
}

// CreatePost inserts the post and its annotations in a single document.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	doc := postDocument{
		ID:        id,
		AuthorID:  int64(post.AuthorID),
		Content:   post.Content,
		Readonly:  post.Readonly,
		CreatedAt: post.CreatedAt,
		Mentions:  nonNil(post.Mentions),
		Tags:      nonNil(post.Tags),
		MutedBy:   []int64{},
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	post.ID = uint(id)
	return nil
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var doc postDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	post := doc.toModel()
	return &post, nil
}

func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID, topID uint, limit int) ([]models.Post, error) {
	return r.pageDesc(ctx, bson.M{"author_id": int64(authorID)}, topID, limit)
}

func (r *MongoPostRepository) GetPostsByTag(ctx context.Context, tag string, topID uint, limit int) ([]models.Post, error) {
	return r.pageDesc(ctx, bson.M{"tags": tag}, topID, limit)
}

func (r *MongoPostRepository) GetPostsByMention(ctx context.Context, account string, topID uint, limit int) ([]models.Post, error) {
	return r.pageDesc(ctx, bson.M{"mentions": account}, topID, limit)
}

func (r *MongoPostRepository) GetNews(ctx context.Context, filter NewsFilter, topID uint, limit int) ([]models.Post, error) {
	return r.pageDesc(ctx, newsQuery(filter), topID, limit)
}

func (r *MongoPostRepository) GetNewsAfter(ctx context.Context, filter NewsFilter, afterID uint, limit int) ([]models.Post, error) {
	query := newsQuery(filter)
	query["_id"] = bson.M{"$gt": int64(afterID)}
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))
	return r.find(ctx, query, findOptions)
}

func (r *MongoPostRepository) CountNewsAfter(ctx context.Context, filter NewsFilter, afterID uint) (int64, error) {
	query := newsQuery(filter)
	query["_id"] = bson.M{"$gt": int64(afterID)}
	return r.collection.CountDocuments(ctx, query)
}

func (r *MongoPostRepository) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"author_id": int64(authorID)})
}

func (r *MongoPostRepository) MutePost(ctx context.Context, viewerID, postID uint) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": int64(postID)},
		bson.M{"$addToSet": bson.M{"muted_by": int64(viewerID)}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoPostRepository) IsMuted(ctx context.Context, viewerID, postID uint) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": int64(postID), "muted_by": int64(viewerID)})
	return n > 0, err
}

func (r *MongoPostRepository) SetReadonly(ctx context.Context, postID uint, readonly bool) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": int64(postID)}, bson.M{"$set": bson.M{"readonly": readonly}})
	return err
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, postID uint) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": int64(postID)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoPostRepository) PostIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	findOptions := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": int64(authorID)}, findOptions)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID int64 `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, uint(d.ID))
	}
	return ids, nil
}

func (r *MongoPostRepository) DeletePostsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	ids, err := r.PostIDsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"author_id": int64(authorID)}); err != nil {
		return nil, err
	}
	_, err = r.collection.UpdateMany(ctx,
		bson.M{"muted_by": int64(authorID)},
		bson.M{"$pull": bson.M{"muted_by": int64(authorID)}},
	)
	return ids, err
}

func newsQuery(filter NewsFilter) bson.M {
	authors := make([]int64, len(filter.AuthorIDs))
	for i, id := range filter.AuthorIDs {
		authors[i] = int64(id)
	}
	return bson.M{
		"author_id": bson.M{"$in": authors},
		"muted_by":  bson.M{"$ne": int64(filter.ViewerID)},
	}
}

func (r *MongoPostRepository) pageDesc(ctx context.Context, query bson.M, topID uint, limit int) ([]models.Post, error) {
	if topID > 0 {
		query["_id"] = bson.M{"$lt": int64(topID)}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit))
	return r.find(ctx, query, findOptions)
}

func (r *MongoPostRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toModel())
	}
	return posts, nil
}
