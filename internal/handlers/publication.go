package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/workspace-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/services"
	"github.com/yukikurage/workspace-api/internal/utils"
)

type PublicationHandler struct {
	publicationService *services.PublicationService
}

func NewPublicationHandler(publicationService *services.PublicationService) *PublicationHandler {
	return &PublicationHandler{publicationService: publicationService}
}

// ListPublications returns publications, newest first
// Can filter by channel_id and author_id
func (h *PublicationHandler) ListPublications(c *gin.Context) {
	channelID, ok := queryID(c, "channel_id")
	if !ok {
		return
	}
	authorID, ok := queryID(c, "author_id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	pubs, total, err := h.publicationService.ListPublications(c.Request.Context(), repository.PublicationFilter{
		ChannelID: channelID,
		AuthorID:  authorID,
		Page:      params,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(pubs, dto.ToPublicationDTO, params, total))
}

// GetPublication returns a specific publication by ID
func (h *PublicationHandler) GetPublication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	pub, err := h.publicationService.GetPublication(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPublicationDTO(*pub))
}

// CreatePublication creates a new publication. A body id is accepted and
// ignored.
func (h *PublicationHandler) CreatePublication(c *gin.Context) {
	type CreatePublicationRequest struct {
		ID        uint64 `json:"id"`
		ChannelID uint64 `json:"channel_id" binding:"required"`
		Title     string `json:"title" binding:"required,max=255"`
		Body      string `json:"body"`
		Slug      string `json:"slug" binding:"max=255"`
	}

	var req CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pub, err := h.publicationService.CreatePublication(c.Request.Context(), services.CreatePublicationInput{
		ID:        req.ID,
		ChannelID: req.ChannelID,
		Title:     req.Title,
		Body:      req.Body,
		Slug:      req.Slug,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPublicationDTO(*pub))
}

// UpdatePublication updates a publication. Only provided fields change.
func (h *PublicationHandler) UpdatePublication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	type UpdatePublicationRequest struct {
		ChannelID *uint64 `json:"channel_id"`
		Title     *string `json:"title" binding:"omitempty,max=255"`
		Body      *string `json:"body"`
		Slug      *string `json:"slug" binding:"omitempty,max=255"`
	}

	var req UpdatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pub, err := h.publicationService.UpdatePublication(c.Request.Context(), id, services.UpdatePublicationInput{
		ChannelID: req.ChannelID,
		Title:     req.Title,
		Body:      req.Body,
		Slug:      req.Slug,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPublicationDTO(*pub))
}

// DeletePublication deletes a publication with its comments and reactions
func (h *PublicationHandler) DeletePublication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.publicationService.DeletePublication(c.Request.Context(), id); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Publication deleted successfully"})
}
