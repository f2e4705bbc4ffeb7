package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	t.Run("TextOnly", func(t *testing.T) {
		router, _ := newTestRouter(t)
		signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
		token := loginUser(t, router, "alice@example.com")

		w := doMultipart(t, router, token, "hello", "", nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		post, _ := parseBody(t, w)["post"].(map[string]any)
		require.NotNil(t, post)
		assert.Equal(t, "hello", post["content"])
		assert.Empty(t, post["likes"])
		assert.Empty(t, post["media"])

		author, _ := post["author"].(map[string]any)
		require.NotNil(t, author)
		assert.Equal(t, "Alice", author["name"])
	})

	t.Run("RequiresAuth", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doMultipart(t, router, "", "hello", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ContentRequired", func(t *testing.T) {
		router, _ := newTestRouter(t)
		signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
		token := loginUser(t, router, "alice@example.com")

		w := doMultipart(t, router, token, "", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ContentTooLong", func(t *testing.T) {
		router, _ := newTestRouter(t)
		signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
		token := loginUser(t, router, "alice@example.com")

		w := doMultipart(t, router, token, strings.Repeat("x", 301), "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "300 characters or less")
	})

	t.Run("WithImage", func(t *testing.T) {
		router, _ := newTestRouter(t)
		signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
		token := loginUser(t, router, "alice@example.com")

		w := doMultipart(t, router, token, "check this out", "image", pngHeader)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		post, _ := parseBody(t, w)["post"].(map[string]any)
		require.NotNil(t, post)
		media, _ := post["media"].([]any)
		require.Len(t, media, 1)
		entry, _ := media[0].(map[string]any)
		assert.Equal(t, "image", entry["type"])
		assert.Contains(t, entry["url"], "https://media.test/")
	})

	t.Run("RejectsNonMediaFile", func(t *testing.T) {
		router, _ := newTestRouter(t)
		signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
		token := loginUser(t, router, "alice@example.com")

		w := doMultipart(t, router, token, "look", "image", []byte("just some text, not an image"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid file type")
	})

	t.Run("RejectsKindMismatch", func(t *testing.T) {
		router, _ := newTestRouter(t)
		signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
		token := loginUser(t, router, "alice@example.com")

		// Real image declared as video.
		w := doMultipart(t, router, token, "look", "video", pngHeader)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RejectsUndeclaredMediaType", func(t *testing.T) {
		router, _ := newTestRouter(t)
		signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
		token := loginUser(t, router, "alice@example.com")

		w := doMultipart(t, router, token, "look", "", pngHeader)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListPosts(t *testing.T) {
	router, _ := newTestRouter(t)
	signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
	token := loginUser(t, router, "alice@example.com")
	createPost(t, router, token, "first")
	createPost(t, router, token, "second")

	w := doJSON(t, router, http.MethodGet, "/api/v1/posts", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	posts, _ := parseBody(t, w)["posts"].([]any)
	require.Len(t, posts, 2)
	first, _ := posts[0].(map[string]any)
	author, _ := first["author"].(map[string]any)
	require.NotNil(t, author)
	assert.Equal(t, "alice@example.com", author["email"])

	noToken := doJSON(t, router, http.MethodGet, "/api/v1/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, noToken.Code)
}

func TestEditPost(t *testing.T) {
	router, _ := newTestRouter(t)
	signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
	signupUser(t, router, "Mallory", "mallory@example.com", "Teacher", "")
	aliceToken := loginUser(t, router, "alice@example.com")
	malloryToken := loginUser(t, router, "mallory@example.com")
	postID := createPost(t, router, aliceToken, "original")

	t.Run("NotOwner", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/posts/"+postID+"/edit", malloryToken, map[string]any{
			"content": "hijacked",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("OwnerSucceeds", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/posts/"+postID+"/edit", aliceToken, map[string]any{
			"content": "updated",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		post, _ := parseBody(t, w)["post"].(map[string]any)
		require.NotNil(t, post)
		assert.Equal(t, "updated", post["content"])

		// Change persisted.
		list := doJSON(t, router, http.MethodGet, "/api/v1/posts", aliceToken, nil)
		assert.Contains(t, list.Body.String(), "updated")
		assert.NotContains(t, list.Body.String(), "original")
	})

	t.Run("Missing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/posts/ffffffffffffffffffffffff/edit", aliceToken, map[string]any{
			"content": "whatever",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/posts/not-hex/edit", aliceToken, map[string]any{
			"content": "whatever",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeletePost(t *testing.T) {
	router, _ := newTestRouter(t)
	signupUser(t, router, "Alice", "alice@example.com", "Student", "12345678")
	signupUser(t, router, "Mallory", "mallory@example.com", "Teacher", "")
	aliceToken := loginUser(t, router, "alice@example.com")
	malloryToken := loginUser(t, router, "mallory@example.com")
	postID := createPost(t, router, aliceToken, "to delete")

	// Not the owner: same response as a missing post.
	notOwner := doJSON(t, router, http.MethodDelete, "/api/v1/posts/"+postID+"/delete", malloryToken, nil)
	missing := doJSON(t, router, http.MethodDelete, "/api/v1/posts/ffffffffffffffffffffffff/delete", malloryToken, nil)
	assert.Equal(t, http.StatusNotFound, notOwner.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, notOwner.Body.String(), missing.Body.String())

	owner := doJSON(t, router, http.MethodDelete, "/api/v1/posts/"+postID+"/delete", aliceToken, nil)
	require.Equal(t, http.StatusOK, owner.Code, owner.Body.String())

	// Gone for good: the public like count now 404s.
	count := doJSON(t, router, http.MethodGet, "/api/v1/posts/"+postID+"/like", "", nil)
	assert.Equal(t, http.StatusNotFound, count.Code)
}
