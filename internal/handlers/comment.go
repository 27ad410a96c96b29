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

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListComments returns comments oldest first
// Can filter by publication_id and parent_id
func (h *CommentHandler) ListComments(c *gin.Context) {
	publicationID, ok := queryID(c, "publication_id")
	if !ok {
		return
	}
	parentID, ok := queryID(c, "parent_id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	comments, total, err := h.commentService.ListComments(c.Request.Context(), repository.CommentFilter{
		PublicationID: publicationID,
		ParentID:      parentID,
		Page:          params,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(comments, dto.ToCommentDTO, params, total))
}

// GetComment returns a specific comment by ID
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// CreateComment creates a comment or a reply
func (h *CommentHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		ID            uint64  `json:"id"`
		PublicationID uint64  `json:"publication_id" binding:"required"`
		ParentID      *uint64 `json:"parent_id"`
		Body          string  `json:"body" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), services.CreateCommentInput{
		ID:            req.ID,
		PublicationID: req.PublicationID,
		ParentID:      req.ParentID,
		Body:          req.Body,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment edits the body of a comment
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	type UpdateCommentRequest struct {
		Body *string `json:"body"`
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), id, services.UpdateCommentInput{Body: req.Body})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment deletes a comment and its reactions
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), id); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
