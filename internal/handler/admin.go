package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/constants"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/internal/service"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// AdminHandler groups operational endpoints: request metrics and refresh
// token maintenance. The whole group is admin-gated by the policy table.
type AdminHandler struct {
	metricsService *service.MetricsService
	tokenRepo      *repository.RefreshTokenRepository
}

func NewAdminHandler(metricsService *service.MetricsService, tokenRepo *repository.RefreshTokenRepository) *AdminHandler {
	return &AdminHandler{
		metricsService: metricsService,
		tokenRepo:      tokenRepo,
	}
}

func (h *AdminHandler) Metrics(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Metrics")

	requests, statuses, err := h.metricsService.Snapshot(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"statuses": statuses,
	})
}

func (h *AdminHandler) ResetMetrics(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ResetMetrics")

	if err := h.metricsService.Reset(ctx); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("metrics reset"))
}

// CleanupTokens purges expired refresh tokens. Expired rows are also
// removed lazily on use; this endpoint reclaims the rest.
func (h *AdminHandler) CleanupTokens(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "CleanupTokens")

	removed, err := h.tokenRepo.CleanupExpired(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.InfoWithContext(ctx, "expired refresh tokens purged").
		Int64("removed", removed).
		Log()

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
