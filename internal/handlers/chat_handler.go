package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tutor-service/internal/chat"
	"tutor-service/internal/llm"
	"tutor-service/internal/middleware"
	"tutor-service/internal/utils"
)

type ChatHandler struct {
	Service *chat.Service
}

func NewChatHandler(s *chat.Service) *ChatHandler {
	return &ChatHandler{Service: s}
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	history, err := h.Service.History(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, chat.ErrNoHistory) {
		utils.NotFoundResponse(c, "Chat history not found")
		return
	}
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load chat history", err)
		return
	}
	utils.SuccessResponse(c, "Chat history retrieved", history)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if req.Message == "" {
		utils.BadRequestResponse(c, "A message is required")
		return
	}

	reply, history, err := h.Service.Message(c.Request.Context(), middleware.UserID(c), req.Message, req.Context)
	if errors.Is(err, llm.ErrOracle) {
		utils.BadGatewayResponse(c, "Failed to generate a reply", err)
		return
	}
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to process message", err)
		return
	}
	utils.SuccessResponse(c, "Message processed", gin.H{
		"message": reply,
		"history": history,
	})
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	if err := h.Service.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		utils.InternalErrorResponse(c, "Failed to clear chat history", err)
		return
	}
	utils.SuccessResponse(c, "Chat history cleared", nil)
}
