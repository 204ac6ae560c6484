package documents

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvbot-backend/internal/shared/server/respond"
	"cvbot-backend/internal/shared/telemetry"
)

// Handler serves produced documents to delivery links.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/file", h.file)
}

func (h *Handler) get(c *gin.Context) {
	c.Set("documentId", c.Param("id"))
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) file(c *gin.Context) {
	c.Set("documentId", c.Param("id"))
	doc, rc, err := h.Svc.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	c.Header("Content-Type", mimeType)
	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	if doc.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("document.stream_failed", map[string]any{"document_id": doc.ID, "error": err})
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
	}
}
