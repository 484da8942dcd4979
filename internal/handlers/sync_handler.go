package handlers

import (
	"net/http"

	"github.com/funtravel/tours-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SyncHandler triggers the catalog -> scheduling event-type sync
type SyncHandler struct {
	syncService *services.SyncService
	logger      *logrus.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *services.SyncService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// Sync runs one full sync pass
// @Summary Sync event types with the catalog
// @Description Creates, updates and deletes scheduling event types so they mirror the tour catalog, pairing by slug
// @Tags Sync
// @Produce json
// @Success 200 {object} services.SyncResult
// @Failure 502 {object} map[string]interface{} "Catalog or scheduling service unavailable"
// @Router /sync/cal-com [post]
func (h *SyncHandler) Sync(c *gin.Context) {
	result, err := h.syncService.Sync(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
