package handlers

import (
	"net/http"

	catalogRepo "choreify/database/repository/catalog"
	"choreify/models"
	"choreify/services/pricing"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Catalog catalogRepo.CatalogRepository
}

func NewCatalogHandler(catalog catalogRepo.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

// serviceListing is a catalog entry with its display price range.
type serviceListing struct {
	models.Service
	PriceRange models.PriceRange `json:"priceRange"`
}

func listing(svc models.Service) serviceListing {
	return serviceListing{Service: svc, PriceRange: pricing.GetServicePriceRange(&svc)}
}

// ListServices handles GET /api/services?category=.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.Catalog.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]serviceListing, 0, len(services))
	for _, svc := range services {
		out = append(out, listing(svc))
	}
	c.JSON(http.StatusOK, out)
}

// GetService handles GET /api/services/:slug.
func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, err := h.Catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing(*svc))
}

// GetPriceRange handles GET /api/services/:slug/price-range.
func (h *CatalogHandler) GetPriceRange(c *gin.Context) {
	svc, err := h.Catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pricing.GetServicePriceRange(svc))
}

type quoteInput struct {
	// Either an inline service or the id of a catalog service.
	Service   *models.Service        `json:"service,omitempty"`
	ServiceID string                 `json:"serviceId,omitempty"`
	Selection models.OptionSelection `json:"selection"`
	Details   models.BookingDetails  `json:"details"`
}

// Quote handles POST /api/pricing/quote. Prices are computed, never stored.
func (h *CatalogHandler) Quote(c *gin.Context) {
	var in quoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	svc := in.Service
	if svc == nil && in.ServiceID != "" {
		found, err := h.Catalog.GetByID(c.Request.Context(), in.ServiceID)
		if err != nil {
			respondError(c, err)
			return
		}
		svc = found
	}

	breakdown := pricing.CalculateServicePrice(svc, in.Selection, in.Details)
	c.JSON(http.StatusOK, gin.H{
		"breakdown": breakdown,
		"formatted": pricing.FormatAmount(breakdown.Total, breakdown.Currency),
	})
}

type formatInput struct {
	Price    *float64 `json:"price"`
	Currency string   `json:"currency"`
}

// FormatPrice handles POST /api/pricing/format.
func (h *CatalogHandler) FormatPrice(c *gin.Context) {
	var in formatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"formatted": pricing.FormatPrice(in.Price, in.Currency)})
}
