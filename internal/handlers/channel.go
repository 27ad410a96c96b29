package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/workspace-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/services"
	"github.com/yukikurage/workspace-api/internal/utils"
)

type ChannelHandler struct {
	channelService *services.ChannelService
}

func NewChannelHandler(channelService *services.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// ListChannels returns the channels of the workspace, ordered by name
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	channels, total, err := h.channelService.ListChannels(c.Request.Context(), params)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(channels, dto.ToChannelDTO, params, total))
}

// GetChannel returns a specific channel by ID
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	channel, err := h.channelService.GetChannel(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChannelDTO(*channel))
}

// CreateChannel creates a new channel. A body id is accepted and ignored.
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	type CreateChannelRequest struct {
		ID   uint64 `json:"id"`
		Name string `json:"name" binding:"max=255"`
		Slug string `json:"slug" binding:"max=255"`
	}

	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	channel, err := h.channelService.CreateChannel(c.Request.Context(), services.CreateChannelInput{
		ID:   req.ID,
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToChannelDTO(*channel))
}

// UpdateChannel updates a channel
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	type UpdateChannelRequest struct {
		Name *string `json:"name" binding:"omitempty,max=255"`
		Slug *string `json:"slug" binding:"omitempty,max=255"`
	}

	var req UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	channel, err := h.channelService.UpdateChannel(c.Request.Context(), id, services.UpdateChannelInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChannelDTO(*channel))
}

// DeleteChannel deletes a channel with its publications
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.channelService.DeleteChannel(c.Request.Context(), id); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Channel deleted successfully"})
}
