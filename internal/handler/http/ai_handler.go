package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// AIHandler serves the chatbot.
type AIHandler struct {
	chat usecasecontract.IChatUseCase
}

func NewAIHandler(chat usecasecontract.IChatUseCase) *AIHandler {
	return &AIHandler{chat: chat}
}

// HandleChat forwards one message. An omitted conversation_id starts a new conversation.
func (h *AIHandler) HandleChat(ctx *gin.Context) {
	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ErrorHandler(ctx, http.StatusBadRequest, "Message is required.")
		return
	}
	reply, conversationID, err := h.chat.Chat(ctx.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		RespondError(ctx, err)
		return
	}
	SuccessHandler(ctx, http.StatusOK, dto.ChatResponse{Reply: reply, ConversationID: conversationID})
}
