package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/workspace-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/services"
	"github.com/yukikurage/workspace-api/internal/utils"
)

// multipartOverhead is the room left for form fields and part headers on top
// of the file size limit.
const multipartOverhead = 1 << 20

type MediaHandler struct {
	mediaService   *services.MediaService
	maxUploadBytes int64
}

func NewMediaHandler(mediaService *services.MediaService, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, maxUploadBytes: maxUploadBytes}
}

// ListMedia returns media, newest first
func (h *MediaHandler) ListMedia(c *gin.Context) {
	publicationID, ok := queryID(c, "publication_id")
	if !ok {
		return
	}
	commentID, ok := queryID(c, "comment_id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	media, total, err := h.mediaService.ListMedia(c.Request.Context(), repository.MediaFilter{
		PublicationID: publicationID,
		CommentID:     commentID,
		Page:          params,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(media, dto.ToMediaDTO, params, total))
}

// UploadMedia stores a multipart "file" part, optionally attached to a
// publication_id or comment_id form field.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.RespondWithDomainError(c, services.ErrFileTooLarge)
			return
		}
		apierrors.RespondWithDomainError(c, services.ErrFileRequired)
		return
	}

	publicationID, ok := optionalID(c, "publication_id", c.PostForm("publication_id"))
	if !ok {
		return
	}
	commentID, ok := optionalID(c, "comment_id", c.PostForm("comment_id"))
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	media, err := h.mediaService.CreateMedia(c.Request.Context(), services.CreateMediaInput{
		PublicationID: publicationID,
		CommentID:     commentID,
		OriginalName:  fileHeader.Filename,
		MimeType:      fileHeader.Header.Get("Content-Type"),
		Content:       file,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMediaDTO(*media))
}

// GetMedia returns the metadata of an upload
func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	media, err := h.mediaService.GetMedia(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMediaDTO(*media))
}

// DownloadMedia streams the stored content of an upload
func (h *MediaHandler) DownloadMedia(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	media, content, err := h.mediaService.OpenMedia(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}
	defer content.Close()

	c.DataFromReader(http.StatusOK, media.Size, media.MimeType, content, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": media.OriginalName}),
	})
}

// DeleteMedia deletes an upload and its stored content
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.mediaService.DeleteMedia(c.Request.Context(), id); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media deleted successfully"})
}
