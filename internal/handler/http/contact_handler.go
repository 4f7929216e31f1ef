package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// ContactHandler relays the public contact and volunteer forms.
type ContactHandler struct {
	notifications usecasecontract.INotificationUseCase
}

func NewContactHandler(uc usecasecontract.INotificationUseCase) *ContactHandler {
	return &ContactHandler{notifications: uc}
}

func (h *ContactHandler) SendContactMessage(c *gin.Context) {
	var req dto.ContactRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	err := h.notifications.SendContactMessage(c.Request.Context(), usecasecontract.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Message sent successfully! A confirmation has been sent to your email.")
}

func (h *ContactHandler) SubmitVolunteerApplication(c *gin.Context) {
	var req dto.VolunteerRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	err := h.notifications.SubmitVolunteerApplication(c.Request.Context(), usecasecontract.VolunteerApplication{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Reason:   req.Reason,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Application submitted successfully!")
}
