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

type ReactionHandler struct {
	reactionService *services.ReactionService
}

func NewReactionHandler(reactionService *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// ListReactions returns reactions, filtered by publication_id, comment_id or
// author_id
func (h *ReactionHandler) ListReactions(c *gin.Context) {
	publicationID, ok := queryID(c, "publication_id")
	if !ok {
		return
	}
	commentID, ok := queryID(c, "comment_id")
	if !ok {
		return
	}
	authorID, ok := queryID(c, "author_id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	reactions, total, err := h.reactionService.ListReactions(c.Request.Context(), repository.ReactionFilter{
		PublicationID: publicationID,
		CommentID:     commentID,
		AuthorID:      authorID,
		Page:          params,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(reactions, dto.ToReactionDTO, params, total))
}

// CreateReaction reacts to exactly one publication or comment
func (h *ReactionHandler) CreateReaction(c *gin.Context) {
	type CreateReactionRequest struct {
		ID            uint64  `json:"id"`
		PublicationID *uint64 `json:"publication_id"`
		CommentID     *uint64 `json:"comment_id"`
		Type          string  `json:"type" binding:"required"`
	}

	var req CreateReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reaction, err := h.reactionService.CreateReaction(c.Request.Context(), services.CreateReactionInput{
		ID:            req.ID,
		PublicationID: req.PublicationID,
		CommentID:     req.CommentID,
		Type:          req.Type,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReactionDTO(*reaction))
}

// DeleteReaction removes a reaction
func (h *ReactionHandler) DeleteReaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.reactionService.DeleteReaction(c.Request.Context(), id); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reaction deleted successfully"})
}
