package handlers

import (
	"context"
	"net/http"
	"time"

	"campusfeed/middleware"
	"campusfeed/models"
	"campusfeed/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dbTimeout = 10 * time.Second

type Handler struct {
	store store.Store
	media MediaUploader
	log   *logrus.Logger
}

func New(s store.Store, media MediaUploader, log *logrus.Logger) *Handler {
	return &Handler{store: s, media: media, log: log}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), dbTimeout)
}

// currentUserID reads the authenticated subject set by the auth
// middleware. A bad value means the token was minted with a broken id,
// treated as an auth failure.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func postIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func commentIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// populateAuthor attaches the author summary to a post for the response.
// Posts whose author has since disappeared are returned without one.
func (h *Handler) populateAuthor(ctx context.Context, p *models.Post) {
	user, err := h.store.UserByID(ctx, p.UserID)
	if err != nil {
		return
	}
	summary := user.Summary()
	p.Author = &summary
}
