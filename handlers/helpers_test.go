package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusfeed/handlers"
	"campusfeed/routes"
	"campusfeed/store"
	"campusfeed/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, _ io.Reader, publicID string) (string, error) {
	return "https://media.test/campusfeed/" + publicID, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing")
	validation.Init()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mem := store.NewMemory()
	h := handlers.New(mem, stubUploader{}, log)
	return routes.SetupRouter(h, []string{"http://localhost:5173"}), mem
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func signupUser(t *testing.T, router *gin.Engine, name, email, role, idNumber string) {
	t.Helper()

	payload := map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	}
	if idNumber != "" {
		payload["idNumber"] = idNumber
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func loginUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := parseBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createPost posts a plain text-only post and returns its id.
func createPost(t *testing.T, router *gin.Engine, token, content string) string {
	t.Helper()

	w := doMultipart(t, router, token, content, "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	post, _ := parseBody(t, w)["post"].(map[string]any)
	require.NotNil(t, post)
	id, _ := post["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func doMultipart(t *testing.T, router *gin.Engine, token, content, mediaType string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if content != "" {
		require.NoError(t, mw.WriteField("content", content))
	}
	if mediaType != "" {
		require.NoError(t, mw.WriteField("mediaType", mediaType))
	}
	if file != nil {
		part, err := mw.CreateFormFile("media", "upload.bin")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/createPost", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
