package handlers

import (
	"errors"
	"net/http"

	"campusfeed/store"

	"github.com/gin-gonic/gin"
)

// LikePost adds the caller to the post's like set in one atomic write.
// Liking your own post is allowed.
func (h *Handler) LikePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.store.AddLike(ctx, postID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	case errors.Is(err, store.ErrAlreadyLiked):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You already liked this post"})
		return
	case err != nil:
		h.log.WithError(err).Error("like post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error liking post"})
		return
	}

	post, err := h.store.PostByID(ctx, postID)
	if err != nil {
		h.log.WithError(err).Error("like post: refetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error liking post"})
		return
	}
	h.populateAuthor(ctx, post)

	c.JSON(http.StatusOK, gin.H{
		"message": "Post liked successfully",
		"post":    post,
	})
}

func (h *Handler) UnlikePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.store.RemoveLike(ctx, postID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	case errors.Is(err, store.ErrNotLiked):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have not liked this post yet!"})
		return
	case err != nil:
		h.log.WithError(err).Error("unlike post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error unliking post"})
		return
	}

	post, err := h.store.PostByID(ctx, postID)
	if err != nil {
		h.log.WithError(err).Error("unlike post: refetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error unliking post"})
		return
	}
	h.populateAuthor(ctx, post)

	c.JSON(http.StatusOK, gin.H{
		"message": "Unliked successfully",
		"post":    post,
	})
}

// LikeCount is a public read.
func (h *Handler) LikeCount(c *gin.Context) {
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
		h.log.WithError(err).Error("like count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error getting post like count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalLikes": len(post.Likes)})
}
