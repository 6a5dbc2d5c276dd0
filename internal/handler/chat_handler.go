package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"holdops/internal/domain"
	"holdops/internal/service"
)

// ChatHandler handles the LLM chat endpoint.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type chatRequest struct {
	Messages  []chatMessage `json:"messages" binding:"required,min=1,max=50,dive"`
	Company   string        `json:"company"`
	MaxTokens int           `json:"max_tokens" binding:"omitempty,min=1"`
}

// Ask handles POST /api/v1/chat
// @Summary      Chat
// @Description  Sends a conversation to the LLM, optionally grounded on a company's latest report
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body body chatRequest true "Conversation"
// @Success      200 {object} APIResponse{data=domain.ChatReply}
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Security     BearerAuth
// @Router       /chat [post]
func (h *ChatHandler) Ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	messages := make([]domain.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = domain.ChatMessage{Role: m.Role, Content: m.Content}
	}
	reply, err := h.chatService.Ask(c.Request.Context(), domain.ChatRequest{
		Messages:  messages,
		Company:   req.Company,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reply)
}
