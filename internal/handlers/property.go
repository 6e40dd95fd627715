package handlers

import (
	"net/http"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/services"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	searchService *services.PropertySearchService
}

func NewPropertyHandler(searchService *services.PropertySearchService) *PropertyHandler {
	return &PropertyHandler{searchService: searchService}
}

// SearchProperties godoc
// @Summary Search properties by postcode
// @Description Combines price-paid sales and energy certificates for a UK postcode
// @Tags Properties
// @Produce json
// @Param postcode query string true "UK postcode, any case or spacing"
// @Success 200 {array} models.UnifiedProperty
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /properties [get]
func (h *PropertyHandler) SearchProperties(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(err)
		return
	}

	properties, err := h.searchService.SearchByPostcode(c.Request.Context(), &req)
	if err != nil {
		if apperrors.IsMissingInput(err) {
			_ = c.Error(err)
			return
		}
		// Callers always get a list; anything past validation is not their problem.
		logger.GlobalLogger.Errorf("Property search failed: postcode=%q, error=%v", req.Postcode, err)
		c.JSON(http.StatusOK, []models.UnifiedProperty{})
		return
	}
	c.JSON(http.StatusOK, properties)
}
