package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CatalogHandler exposes read-only catalog passthroughs so the storefront
// talks to one backend instead of hitting the CMS directly.
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *logrus.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *services.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListTours lists tours, optionally filtered by destination
// @Summary List tours
// @Tags Catalog
// @Produce json
// @Param destination query string false "Destination slug filter"
// @Param include_destination query bool false "Populate each tour's destination"
// @Success 200 {object} map[string]interface{}
// @Router /tours [get]
func (h *CatalogHandler) ListTours(c *gin.Context) {
	includeDestination, _ := strconv.ParseBool(c.Query("include_destination"))

	tours, err := h.catalogService.GetTours(c.Request.Context(), c.Query("destination"), includeDestination)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tours": tours})
}

// GetTour returns one tour by slug
// @Summary Get a tour
// @Tags Catalog
// @Produce json
// @Param slug path string true "Tour slug"
// @Success 200 {object} strapi.Tour
// @Failure 404 {object} map[string]interface{} "Unknown tour"
// @Router /tours/{slug} [get]
func (h *CatalogHandler) GetTour(c *gin.Context) {
	slug := c.Param("slug")
	includeDestination, _ := strconv.ParseBool(c.Query("include_destination"))

	tour, err := h.catalogService.GetTour(c.Request.Context(), slug, includeDestination)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if tour == nil {
		respondError(c, h.logger, fmt.Errorf("tour %s: %w", slug, models.ErrNotFound))
		return
	}

	c.JSON(http.StatusOK, tour)
}

// ListDestinations lists destinations
// @Summary List destinations
// @Tags Catalog
// @Produce json
// @Param include_tours query bool false "Populate each destination's tours"
// @Success 200 {object} map[string]interface{}
// @Router /destinations [get]
func (h *CatalogHandler) ListDestinations(c *gin.Context) {
	includeTours, _ := strconv.ParseBool(c.Query("include_tours"))

	destinations, err := h.catalogService.GetDestinations(c.Request.Context(), includeTours)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"destinations": destinations})
}

// GetDestination returns one destination by slug
// @Summary Get a destination
// @Tags Catalog
// @Produce json
// @Param slug path string true "Destination slug"
// @Success 200 {object} strapi.Destination
// @Failure 404 {object} map[string]interface{} "Unknown destination"
// @Router /destinations/{slug} [get]
func (h *CatalogHandler) GetDestination(c *gin.Context) {
	slug := c.Param("slug")
	includeTours, _ := strconv.ParseBool(c.Query("include_tours"))

	destination, err := h.catalogService.GetDestination(c.Request.Context(), slug, includeTours)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if destination == nil {
		respondError(c, h.logger, fmt.Errorf("destination %s: %w", slug, models.ErrNotFound))
		return
	}

	c.JSON(http.StatusOK, destination)
}
