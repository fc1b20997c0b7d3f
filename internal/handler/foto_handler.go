package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/service"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/response"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

const fotoFormField = "foto"

// FotoHandler uploads and serves student photos.
type FotoHandler struct {
	fotos *service.FotoService
}

// NewFotoHandler constructs FotoHandler.
func NewFotoHandler(fotos *service.FotoService) *FotoHandler {
	return &FotoHandler{fotos: fotos}
}

// Upload godoc
// @Summary Upload student photo
// @Tags Alunos
// @Accept mpfd
// @Produce json
// @Param id path int true "Aluno ID"
// @Param foto formData file true "Image file"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /alunos/{id}/foto [post]
func (h *FotoHandler) Upload(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit := h.fotos.MaxBytes()
	// multipart framing needs headroom above the file limit
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64*1024)

	header, err := c.FormFile(fotoFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.ErrPayloadTooLarge)
			return
		}
		response.Error(c, validation.Field("invalid upload", fotoFormField, "a file is required"))
		return
	}
	if header.Size > limit {
		response.Error(c, appErrors.ErrPayloadTooLarge)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}

	aluno, err := h.fotos.Upload(c.Request.Context(), principalFromContext(c), id, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aluno, nil)
}

// URL godoc
// @Summary Temporary photo link
// @Tags Alunos
// @Produce json
// @Param id path int true "Aluno ID"
// @Success 200 {object} response.Envelope
// @Router /alunos/{id}/foto-url [get]
func (h *FotoHandler) URL(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	link, err := h.fotos.URL(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FotoURLResponse{URL: link.URL, ExpiresAt: link.ExpiresAt.UTC().Format(time.RFC3339)}, nil)
}

// Download godoc
// @Summary Download a photo through a signed token
// @Tags Alunos
// @Produce image/jpeg
// @Produce image/png
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /fotos/{token} [get]
func (h *FotoHandler) Download(c *gin.Context) {
	file, contentType, err := h.fotos.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read photo"))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, map[string]string{"Cache-Control": "private, max-age=300"})
}
