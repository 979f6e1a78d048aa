package generation

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mocard/benefits-api/internal/handler"
	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/service/generation"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type Handler struct {
	service generation.GenerationService
}

func NewHandler(service generation.GenerationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cards := r.Group("/cards")
	{
		cards.POST("/generate", h.GenerateBatch)
		cards.GET("/generate/options", h.GenerationOptions)
		cards.GET("/batches/:id/progress", h.TrackProgress)
		cards.GET("/batches/:id/export", h.ExportBatch)
	}
}

// GenerateBatch accepts a generation request and runs it to a terminal state.
// The GenerationResult is returned for every outcome; the HTTP status encodes
// the failure class.
func (h *Handler) GenerateBatch(c *gin.Context) {
	var req model.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(handler.BindingErrorMessage(err)))
		return
	}

	result, err := h.service.GenerateBatch(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.StatusFromError(err), result)
		return
	}
	if !result.Success {
		// Rejected before any batch record was created.
		c.JSON(http.StatusBadRequest, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// TrackProgress reports the live completion ratio of a batch. Callers poll it
// until a terminal status comes back.
func (h *Handler) TrackProgress(c *gin.Context) {
	batchID := c.Param("id")

	progress, err := h.service.TrackProgress(c.Request.Context(), batchID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("batch not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(progress))
}

// ExportBatch streams the batch's cards as a CSV attachment. An empty batch
// downloads as a header-only file.
func (h *Handler) ExportBatch(c *gin.Context) {
	batchID := c.Param("id")

	data, err := h.service.ExportBatchCSV(c.Request.Context(), batchID)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	filename := fmt.Sprintf("cards_%s.csv", batchID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *Handler) GenerationOptions(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Options()))
}
