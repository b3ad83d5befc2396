package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

const collectionComments = "comments"

// CommentRepository stores comments with references to their post and author.
type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Author    primitive.ObjectID `bson:"author"`
	Post      primitive.ObjectID `bson:"post"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// Create inserts a comment. The referenced post is stored as given; its
// existence is not checked.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	post, err := primitive.ObjectIDFromHex(c.PostID)
	if err != nil {
		return fmt.Errorf("%w: invalid postId", domain.ErrValidation)
	}
	author, err := primitive.ObjectIDFromHex(c.AuthorID)
	if err != nil {
		return fmt.Errorf("%w: invalid author id", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoComment{
		ID:        primitive.NewObjectID(),
		Content:   c.Content,
		Author:    author,
		Post:      post,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	c.ID = doc.ID.Hex()
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

// ListByPost returns the comments of a post oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	post, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return []*domain.Comment{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"post": post}, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	var docs []mongoComment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	out := make([]*domain.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Comment{
			ID:        d.ID.Hex(),
			Content:   d.Content,
			AuthorID:  d.Author.Hex(),
			PostID:    d.Post.Hex(),
			CreatedAt: d.CreatedAt.UTC(),
			UpdatedAt: d.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}
