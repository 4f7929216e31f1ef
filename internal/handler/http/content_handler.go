package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// ContentHandler serves news posts and the gallery.
type ContentHandler struct {
	news    usecasecontract.INewsUseCase
	gallery usecasecontract.IGalleryUseCase
}

func NewContentHandler(news usecasecontract.INewsUseCase, gallery usecasecontract.IGalleryUseCase) *ContentHandler {
	return &ContentHandler{news: news, gallery: gallery}
}

// parsePostDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func parsePostDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func (h *ContentHandler) CreateNews(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	rawDate := c.PostForm("date")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" || strings.TrimSpace(rawDate) == "" {
		ErrorHandler(c, http.StatusBadRequest, "Title, content, and date are required.")
		return
	}
	date, err := parsePostDate(rawDate)
	if err != nil {
		ErrorHandler(c, http.StatusBadRequest, "Date must be YYYY-MM-DD or RFC3339.")
		return
	}
	image, err := readUpload(c, "image")
	if err != nil {
		ErrorHandler(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.news.CreatePost(c.Request.Context(), title, content, date, image)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusCreated, dto.NewsCreatedResponse{Message: "News post created successfully!", Post: post})
}

func (h *ContentHandler) ListNews(c *gin.Context) {
	posts, err := h.news.ListPosts(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, posts)
}

func (h *ContentHandler) GetNews(c *gin.Context) {
	post, err := h.news.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, post)
}

func (h *ContentHandler) DeleteNews(c *gin.Context) {
	if err := h.news.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "News post deleted successfully.")
}

// UploadGallery accepts up to ten files in the images field and one caption for the batch.
func (h *ContentHandler) UploadGallery(c *gin.Context) {
	files, err := readUploads(c, "images")
	if err != nil {
		ErrorHandler(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(files) == 0 {
		ErrorHandler(c, http.StatusBadRequest, "At least one image file is required.")
		return
	}

	images, err := h.gallery.UploadImages(c.Request.Context(), c.PostForm("caption"), files)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusCreated, dto.GalleryUploadResponse{
		Message: fmt.Sprintf("%d image(s) uploaded successfully!", len(images)),
		Images:  images,
	})
}

func (h *ContentHandler) ListGallery(c *gin.Context) {
	images, err := h.gallery.ListImages(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, images)
}

func (h *ContentHandler) DeleteGallery(c *gin.Context) {
	if err := h.gallery.DeleteImage(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Image deleted successfully.")
}
