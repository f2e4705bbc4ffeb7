package handlers

import (
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"campusfeed/models"
	"campusfeed/store"
	"campusfeed/validation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EditPostRequest struct {
	Content string `json:"content" binding:"required,max=300"`
}

// CreatePost accepts multipart form data: a required content field plus
// an optional single media file with its declared mediaType. The file's
// sniffed kind must be image or video and match the declaration.
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	content := c.PostForm("content")
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}
	if utf8.RuneCountInString(content) > models.MaxContentLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content must be 300 characters or less"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	media := []models.Media{}
	file, _, err := c.Request.FormFile("media")
	if err == nil {
		defer file.Close()

		declared := models.MediaType(c.PostForm("mediaType"))
		if declared != models.MediaImage && declared != models.MediaVideo {
			c.JSON(http.StatusBadRequest, gin.H{"message": "mediaType must be image or video"})
			return
		}

		kind, err := detectMediaKind(file)
		if err != nil || kind != declared {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file type"})
			return
		}

		if h.media == nil {
			h.log.Error("create post: media upload requested but no uploader configured")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Media storage not configured"})
			return
		}

		url, err := h.media.Upload(ctx, file, primitive.NewObjectID().Hex())
		if err != nil {
			h.log.WithError(err).Error("create post: media upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload media"})
			return
		}
		media = append(media, models.Media{URL: url, Type: declared})
	}

	post := models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		Media:     media,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.CreatePost(ctx, &post); err != nil {
		h.log.WithError(err).Error("create post: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating post"})
		return
	}

	h.populateAuthor(ctx, &post)
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *Handler) ListPosts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	posts, err := h.store.ListPosts(ctx)
	if err != nil {
		h.log.WithError(err).Error("list posts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching posts"})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	authors, err := h.store.UsersByIDs(ctx, ids)
	if err != nil {
		h.log.WithError(err).Error("list posts: author lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching posts"})
		return
	}
	for i := range posts {
		if author, ok := authors[posts[i].UserID]; ok {
			summary := author.Summary()
			posts[i].Author = &summary
		}
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) EditPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req EditPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": validation.Details(err)})
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
		h.log.WithError(err).Error("edit post: lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error editing post"})
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to edit this post"})
		return
	}

	updated, err := h.store.UpdatePostContent(ctx, postID, req.Content)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("edit post: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error editing post"})
		return
	}

	h.populateAuthor(ctx, updated)
	c.JSON(http.StatusOK, gin.H{"post": updated})
}

// DeletePost filters on owner and id in one operation, so "absent" and
// "not yours" are indistinguishable to the caller.
func (h *Handler) DeletePost(c *gin.Context) {
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

	err := h.store.DeletePostOwned(ctx, postID, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found or you are not authorized to delete it"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("delete post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
