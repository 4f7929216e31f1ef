package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

type SubscriptionHandler struct {
	subscriptions usecasecontract.ISubscriptionUseCase
}

func NewSubscriptionHandler(uc usecasecontract.ISubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: uc}
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := currentAccountID(c)
	if !ok {
		return
	}
	if err := h.subscriptions.Subscribe(c.Request.Context(), userID); err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusCreated, "Subscription successful.")
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, ok := currentAccountID(c)
	if !ok {
		return
	}
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID); err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Unsubscribed successfully.")
}

func (h *SubscriptionHandler) Status(c *gin.Context) {
	userID, ok := currentAccountID(c)
	if !ok {
		return
	}
	subscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.SubscriptionStatusResponse{IsSubscribed: subscribed})
}

func (h *SubscriptionHandler) Count(c *gin.Context) {
	n, err := h.subscriptions.Count(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.CountResponse{Count: n})
}
