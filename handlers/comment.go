package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campusfeed/models"
	"campusfeed/store"
	"campusfeed/validation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=300"`
}

func (h *Handler) CreateComment(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": validation.Details(err)})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}

	err := h.store.AddComment(ctx, postID, &comment)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("add comment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding comment"})
		return
	}

	post, err := h.store.PostByID(ctx, postID)
	if err != nil {
		h.log.WithError(err).Error("add comment: refetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding comment"})
		return
	}
	h.populateAuthor(ctx, post)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"post":    post,
	})
}

// ListComments is a public read of a post's comments.
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := h.store.PostByID(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("list comments failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": post.Comments})
}

func (h *Handler) UpdateComment(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": validation.Details(err)})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if !h.checkCommentAuthor(ctx, c, postID, commentID, userID, "edit") {
		return
	}

	err := h.store.UpdateComment(ctx, postID, commentID, userID, req.Text)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("update comment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error editing comment"})
		return
	}

	post, err := h.store.PostByID(ctx, postID)
	if err != nil {
		h.log.WithError(err).Error("update comment: refetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error editing comment"})
		return
	}
	h.populateAuthor(ctx, post)

	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if !h.checkCommentAuthor(ctx, c, postID, commentID, userID, "delete") {
		return
	}

	err := h.store.DeleteComment(ctx, postID, commentID, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("delete comment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// checkCommentAuthor distinguishes a missing post/comment (404) from a
// comment someone else owns (403). It writes the error response itself
// and reports whether the caller may proceed.
func (h *Handler) checkCommentAuthor(ctx context.Context, c *gin.Context, postID, commentID, userID primitive.ObjectID, action string) bool {
	post, err := h.store.PostByID(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return false
	}
	if err != nil {
		h.log.WithError(err).Error("comment lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return false
	}

	for _, comment := range post.Comments {
		if comment.ID == commentID {
			if comment.UserID != userID {
				c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to " + action + " this comment"})
				return false
			}
			return true
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
	return false
}
