package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// AdminHandler serves the admin console. Every route sits behind the admin role gate.
type AdminHandler struct {
	admin usecasecontract.IAdminUseCase
}

func NewAdminHandler(admin usecasecontract.IAdminUseCase) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) AddAdmin(c *gin.Context) {
	var req dto.AddAdminRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	admin, err := h.admin.AddAdmin(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusCreated, dto.AdminCreatedResponse{
		ID:      admin.ID,
		Name:    admin.Name,
		Email:   admin.Email,
		Role:    string(admin.Role),
		Message: "Admin account created successfully.",
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToUserResponses(users))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "User removed successfully.")
}

func (h *AdminHandler) ListPersonnel(c *gin.Context) {
	admins, err := h.admin.ListPersonnel(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToUserResponses(admins))
}

// Dashboard returns the profile of the signed in admin.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	adminID, ok := currentAccountID(c)
	if !ok {
		return
	}
	admin, err := h.admin.GetAdmin(c.Request.Context(), adminID)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToUserResponse(*admin))
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.GetStats(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, stats)
}
