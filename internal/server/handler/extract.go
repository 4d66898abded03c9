package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tsawler/slidetext"
	"github.com/tsawler/slidetext/format"
	"github.com/tsawler/slidetext/internal/server/service"
)

// ExtractService defines the behavior consumed by the handler.
type ExtractService interface {
	Process(ctx context.Context, file multipart.File, header *multipart.FileHeader, countOnly bool) (slidetext.Result, error)
	Ready(ctx context.Context) bool
}

// maxBodyBytes bounds the request body: the largest accepted upload plus
// room for the multipart envelope and form fields.
const maxBodyBytes = service.MaxUploadBytes + 1<<20

// ExtractHandler manages extraction HTTP interactions.
type ExtractHandler struct {
	service ExtractService
	logger  *slog.Logger
	maxBody int64
}

// NewExtractHandler builds the handler.
func NewExtractHandler(svc ExtractService, logger *slog.Logger) *ExtractHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractHandler{service: svc, logger: logger, maxBody: maxBodyBytes}
}

// HandleExtract extracts an uploaded presentation.
func (h *ExtractHandler) HandleExtract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)

	// Parse multipart form (32MB in memory, the rest spills to disk)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "file too large",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "invalid multipart payload",
		})
		return
	}

	// Get the uploaded file
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "missing file",
		})
		return
	}
	defer file.Close()

	countOnly, err := parseCountOnly(c.Request.FormValue("count_only"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "invalid count_only value",
		})
		return
	}

	result, err := h.service.Process(c.Request.Context(), file, header, countOnly)
	switch {
	case errors.Is(err, format.ErrUnsupported):
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
			"error": "unsupported presentation format",
		})
		return
	case errors.Is(err, service.ErrTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "file too large",
		})
		return
	case err != nil:
		h.logger.Error("extraction error", "file", header.Filename, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "extraction error",
		})
		return
	}

	if result.Err != nil {
		h.logger.Warn("extraction degraded", "file", header.Filename, "error", result.Err)
		c.Header("X-Extraction-Warning", result.Err.Error())
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// HandleReady reports whether the OCR engine is callable.
func (h *ExtractHandler) HandleReady(c *gin.Context) {
	if !h.service.Ready(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OCR engine not ready"})
		return
	}
	c.String(http.StatusOK, "ready")
}

// parseCountOnly accepts booleans and the literal "count_only".
func parseCountOnly(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return false, nil
	case "count_only":
		return true, nil
	}
	return strconv.ParseBool(v)
}
