package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	handler "github.com/mpikenya/mpi-backend/internal/handler/http"
	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	"github.com/mpikenya/mpi-backend/internal/handler/http/middleware"
	"github.com/mpikenya/mpi-backend/internal/handler/http/mocks"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// withAccount stands in for the auth middleware.
func withAccount(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextAccountID, id)
		c.Next()
	}
}

func setupRouter(h handler.UserHandlerInterface) *gin.Engine {
	r := gin.New()
	me := r.Group("/", withAccount("user-42"))
	me.GET("/users/me", h.GetCurrentUser)
	me.PUT("/users/me", h.UpdateCurrentUser)
	me.POST("/users/profile-picture", h.UploadProfilePicture)
	return r
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a form with one file per entry in files under field.
func multipartRequest(t *testing.T, path, field string, fields map[string]string, files ...[]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for i, data := range files {
		part, err := w.CreateFormFile(field, "file"+string(rune('a'+i))+".png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestGetCurrentUser(t *testing.T) {
	mockUsecase := mocks.NewMockUserUsecase()
	r := setupRouter(handler.NewUserHandler(mockUsecase))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got dto.UserResponse
	decode(t, w, &got)
	assert.Equal(t, "user-42", got.ID)
	assert.Equal(t, "user", got.Role)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	mockUsecase := mocks.NewMockUserUsecase()
	mockUsecase.FailWith = entity.NewNotFoundError("User not found.")
	r := setupRouter(handler.NewUserHandler(mockUsecase))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found."}`, w.Body.String())
}

func TestGetCurrentUser_WithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/users/me", handler.NewUserHandler(mocks.NewMockUserUsecase()).GetCurrentUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateCurrentUser(t *testing.T) {
	mockUsecase := mocks.NewMockUserUsecase()
	r := setupRouter(handler.NewUserHandler(mockUsecase))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, "/users/me", map[string]string{"name": "Amani"}))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockUsecase.LastName)
	assert.Equal(t, "Amani", *mockUsecase.LastName)
	assert.Contains(t, w.Body.String(), `"name":"Amani"`)
}

func TestUpdateCurrentUser_Fail(t *testing.T) {
	mockUsecase := mocks.NewMockUserUsecase()
	r := setupRouter(handler.NewUserHandler(mockUsecase))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid request body."}`, w.Body.String())

	mockUsecase.FailWith = entity.NewValidationError("Name cannot be empty.")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, "/users/me", map[string]string{"name": " "}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name cannot be empty.")
}

func TestUploadProfilePicture(t *testing.T) {
	mockUsecase := mocks.NewMockUserUsecase()
	r := setupRouter(handler.NewUserHandler(mockUsecase))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/users/profile-picture", "profileImage", nil, pngBytes))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockUsecase.LastUpload)
	assert.Equal(t, "image/png", mockUsecase.LastUpload.ContentType)
	assert.Contains(t, w.Body.String(), "Profile picture updated successfully!")
}

func TestUploadProfilePicture_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		message string
	}{
		{
			name: "no file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/users/profile-picture", "profileImage", map[string]string{"x": "y"})
			},
			message: "No image file provided.",
		},
		{
			name: "not an image",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/users/profile-picture", "profileImage", nil, []byte("plain text, not a picture"))
			},
			message: "only image files are allowed",
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, handler.MaxUploadBytes)...)
				return multipartRequest(t, "/users/profile-picture", "profileImage", nil, big)
			},
			message: "exceeds the 5 MB limit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsecase := mocks.NewMockUserUsecase()
			r := setupRouter(handler.NewUserHandler(mockUsecase))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Nil(t, mockUsecase.LastUpload)
		})
	}
}
