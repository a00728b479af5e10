package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"tutor-service/internal/models"
	"tutor-service/internal/repository"
	"tutor-service/internal/utils"
)

type ContentHandler struct {
	Repo *repository.ContentRepository
}

func NewContentHandler(repo *repository.ContentRepository) *ContentHandler {
	return &ContentHandler{Repo: repo}
}

func (h *ContentHandler) GetContent(c *gin.Context) {
	content, err := h.Repo.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.NotFoundResponse(c, "Shared content not found")
		return
	}
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load shared content", err)
		return
	}
	utils.SuccessResponse(c, "Shared content retrieved", content)
}

func (h *ContentHandler) ListBySubject(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		utils.BadRequestResponse(c, "A valid subject is required")
		return
	}

	contents, err := h.Repo.FindBySubject(c.Request.Context(), subject)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to list shared content", err)
		return
	}
	utils.SuccessResponse(c, "Shared content retrieved", contents)
}

func (h *ContentHandler) CreateContent(c *gin.Context) {
	var content models.SharedContent
	if err := c.ShouldBindJSON(&content); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if err := content.Validate(); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.Repo.Create(c.Request.Context(), &content); err != nil {
		utils.InternalErrorResponse(c, "Failed to create shared content", err)
		return
	}
	utils.SuccessResponse(c, "Shared content created", content)
}

func (h *ContentHandler) DeleteContent(c *gin.Context) {
	err := h.Repo.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.NotFoundResponse(c, "Shared content not found")
		return
	}
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to delete shared content", err)
		return
	}
	utils.SuccessResponse(c, "Shared content deleted", nil)
}
