package card

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mocard/benefits-api/internal/handler"
	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/service/card"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type Handler struct {
	service card.CardService
}

func NewHandler(service card.CardService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cards := r.Group("/cards")
	{
		cards.GET("/lookup/:controlNumber", h.LookupCard)
		cards.POST("/:id/redeem", h.RedeemPerk)
	}
	r.GET("/clinics/:id/cards", h.ListClinicCards)
}

func (h *Handler) LookupCard(c *gin.Context) {
	card, err := h.service.LookupByControlNumber(c.Request.Context(), c.Param("controlNumber"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("card not found"))
			return
		}
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(card))
}

func (h *Handler) ListClinicCards(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	var filters model.CardFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	cards, err := h.service.ListClinicCards(c.Request.Context(), clinicID, &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(cards))
}

func (h *Handler) RedeemPerk(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid card ID"))
		return
	}

	card, err := h.service.RedeemPerk(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(card))
}
