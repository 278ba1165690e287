package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

// SyncService is the inventory sync surface exposed over HTTP.
type SyncService interface {
	Run(ctx context.Context) (models.SyncResult, error)
	Status() models.SyncStatus
}

// ConnectionProber reports whether the accounting system answers.
type ConnectionProber interface {
	TestConnection(ctx context.Context) bool
}

// SyncHandler handles manual sync triggers and accounting system health checks.
type SyncHandler struct {
	svc    SyncService
	prober ConnectionProber
	logger *zap.Logger
}

// NewSyncHandler constructs the HTTP handler adapter.
func NewSyncHandler(svc SyncService, prober ConnectionProber, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{svc: svc, prober: prober, logger: logger}
}

// Manual runs one sync pass and reports its result. Product descriptions,
// attributes and images are reset by every pass.
func (h *SyncHandler) Manual(c *gin.Context) {
	result, err := h.svc.Run(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, models.ErrSyncInProgress):
			status = http.StatusConflict
		case errors.Is(err, models.ErrFetchFailed):
			status = http.StatusBadGateway
		}
		h.logger.Warn("manual sync failed", zap.Int("status", status), zap.Error(err))
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Test reports connectivity to the accounting system. It always answers 200.
func (h *SyncHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected": h.prober.TestConnection(c.Request.Context())})
}

// Status exposes the coordinator's current state and last outcome.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status())
}
