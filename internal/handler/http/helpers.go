package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	"github.com/mpikenya/mpi-backend/internal/handler/http/middleware"
)

// MaxUploadBytes is the largest accepted image file.
const MaxUploadBytes = 5 << 20

const msgInternalServer = "internal server error"

var errNotAnImage = errors.New("only image files are allowed")

// ErrorHandler centralizes error handling for HTTP responses
func ErrorHandler(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, dto.ErrorResponse{Message: message})
}

// SuccessHandler centralizes success responses
func SuccessHandler(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// MessageHandler centralizes message responses
func MessageHandler(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.MessageResponse{Message: message})
}

// RespondError maps an error from a use case to its status code. Messages of
// upstream failures never reach the client; the cause is attached to the gin
// context for the request logger.
func RespondError(c *gin.Context, err error) {
	var appErr *entity.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		ErrorHandler(c, http.StatusInternalServerError, msgInternalServer)
		return
	}
	status := statusFor(appErr.Kind)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	ErrorHandler(c, status, appErr.Message)
}

func statusFor(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindValidation, entity.KindDuplicate:
		return http.StatusBadRequest
	case entity.KindConflict:
		return http.StatusConflict
	case entity.KindUnauthenticated:
		return http.StatusUnauthorized
	case entity.KindForbidden:
		return http.StatusForbidden
	case entity.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// BindAndValidate binds JSON request and validates it
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		ErrorHandler(c, http.StatusBadRequest, "Invalid request body.")
		return err
	}
	return nil
}

// currentAccountID reads the identity bound by the auth middleware.
func currentAccountID(c *gin.Context) (string, bool) {
	id, ok := middleware.AccountID(c)
	if !ok {
		ErrorHandler(c, http.StatusUnauthorized, "no token")
	}
	return id, ok
}

// readUpload loads one multipart image. A missing field returns (nil, nil).
func readUpload(c *gin.Context, field string) (*entity.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return loadImage(fh)
}

// readUploads loads every image sent under field.
func readUploads(c *gin.Context, field string) ([]entity.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	headers := form.File[field]
	uploads := make([]entity.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := loadImage(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *u)
	}
	return uploads, nil
}

func loadImage(fh *multipart.FileHeader) (*entity.Upload, error) {
	if fh.Size > MaxUploadBytes {
		return nil, fmt.Errorf("%s exceeds the %d MB limit", fh.Filename, MaxUploadBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%s exceeds the %d MB limit", fh.Filename, MaxUploadBytes>>20)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errNotAnImage
	}
	return &entity.Upload{Filename: fh.Filename, ContentType: mt.String(), Data: data}, nil
}
