package store

import (
	"context"
	"errors"

	"campusfeed/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate key")
	ErrAlreadyLiked = errors.New("already liked")
	ErrNotLiked     = errors.New("not liked")
)

// Store is the persistence surface the handlers depend on. Like/unlike
// and comment mutations are single atomic writes so concurrent requests
// can never produce duplicate likes or orphaned comments.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByIDNumber(ctx context.Context, idNumber string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)

	CreatePost(ctx context.Context, p *models.Post) error
	PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePostContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Post, error)

	// DeletePostOwned removes the post only when owner matches, reporting
	// ErrNotFound for both "absent" and "not yours".
	DeletePostOwned(ctx context.Context, id, owner primitive.ObjectID) error

	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error

	AddComment(ctx context.Context, postID primitive.ObjectID, c *models.Comment) error
	UpdateComment(ctx context.Context, postID, commentID, author primitive.ObjectID, text string) error
	DeleteComment(ctx context.Context, postID, commentID, author primitive.ObjectID) error
}
