package handlers

import (
	"net/http"
	"time"

	"github.com/funtravel/tours-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AvailabilityHandler exposes tour availability lookups
type AvailabilityHandler struct {
	availabilityService *services.AvailabilityService
	logger              *logrus.Logger
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availabilityService *services.AvailabilityService, logger *logrus.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// IsAvailable checks one start instant
// @Summary Check tour availability at an instant
// @Description Reports whether the tour can start at the given RFC3339 instant. Instants touching a busy interval's boundary are unavailable.
// @Tags Availability
// @Produce json
// @Param slug path string true "Tour slug"
// @Param start query string true "Start instant, RFC3339"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Missing or malformed start"
// @Failure 404 {object} map[string]interface{} "Tour has no scheduling event type"
// @Router /availability/{slug} [get]
func (h *AvailabilityHandler) IsAvailable(c *gin.Context) {
	slug := c.Param("slug")

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "start must be an RFC3339 timestamp",
		})
		return
	}

	available, err := h.availabilityService.IsAvailable(c.Request.Context(), slug, start)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tour":      slug,
		"start":     start.Format(time.RFC3339),
		"available": available,
	})
}

// OccupiedDates lists the days with busy intervals
// @Summary List occupied dates for a tour
// @Description Returns the distinct UTC days on which the tour has a busy interval starting, for the coming year
// @Tags Availability
// @Produce json
// @Param slug path string true "Tour slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Tour has no scheduling event type"
// @Router /availability/{slug}/occupied [get]
func (h *AvailabilityHandler) OccupiedDates(c *gin.Context) {
	slug := c.Param("slug")

	dates, err := h.availabilityService.OccupiedDates(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	formatted := make([]string, len(dates))
	for i, date := range dates {
		formatted[i] = date.Format("2006-01-02")
	}

	c.JSON(http.StatusOK, gin.H{
		"tour":  slug,
		"dates": formatted,
	})
}
