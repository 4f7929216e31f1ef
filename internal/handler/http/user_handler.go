package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// UserHandlerInterface defines the methods for user handler to allow interface-based dependency injection (for testing/mocking)
type UserHandlerInterface interface {
	GetCurrentUser(*gin.Context)
	UpdateCurrentUser(*gin.Context)
	UploadProfilePicture(*gin.Context)
}

// Ensure UserHandler implements UserHandlerInterface
var _ UserHandlerInterface = (*UserHandler)(nil)

type UserHandler struct {
	userUsecase usecasecontract.IUserUseCase
}

func NewUserHandler(userUsecase usecasecontract.IUserUseCase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// GetCurrentUser handles retrieving the current authenticated user
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentAccountID(c)
	if !ok {
		return
	}
	user, err := h.userUsecase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToUserResponse(*user))
}

// UpdateCurrentUser handles updating the name and photo of the current user
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := currentAccountID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	user, err := h.userUsecase.UpdateProfile(c.Request.Context(), userID, req.Name, req.PhotoURL)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToUserResponse(*user))
}

// UploadProfilePicture reads the multipart field profileImage.
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	userID, ok := currentAccountID(c)
	if !ok {
		return
	}
	file, err := readUpload(c, "profileImage")
	if err != nil {
		ErrorHandler(c, http.StatusBadRequest, err.Error())
		return
	}
	if file == nil {
		ErrorHandler(c, http.StatusBadRequest, "No image file provided.")
		return
	}
	user, err := h.userUsecase.UploadProfilePicture(c.Request.Context(), userID, *file)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ProfileUpdatedResponse{
		Message: "Profile picture updated successfully!",
		User:    dto.ToUserResponse(*user),
	})
}
