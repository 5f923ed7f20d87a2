package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/branchpulse/branchpulse/internal/analytics"
	"github.com/branchpulse/branchpulse/internal/service/insights"
)

// AnalyticsHandler serves the aggregation queries consumed by the dashboard.
type AnalyticsHandler struct {
	svc    *insights.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(svc *insights.Service, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{svc: svc, logger: logger, now: time.Now}
}

// Dashboard returns the headline stats.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed computing dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Trend returns the bucketed trend line for the requested range kind.
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	kind, referenceEnd, ok := h.window(c)
	if !ok {
		return
	}

	points, err := h.svc.Trend(c.Request.Context(), kind, referenceEnd)
	if err != nil {
		h.fail(c, err, "failed computing trend")
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": kind, "points": points})
}

// TopPerformers returns agents ranked by composite score.
func (h *AnalyticsHandler) TopPerformers(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	performers, err := h.svc.TopPerformers(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "failed ranking performers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"performers": performers})
}

// Categories returns the per-tier coverage breakdown.
func (h *AnalyticsHandler) Categories(c *gin.Context) {
	rows, err := h.svc.CategoryBreakdown(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed computing category breakdown")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": rows})
}

// Heatmap returns the qualitative-field-by-bucket grid.
func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	kind, referenceEnd, ok := h.window(c)
	if !ok {
		return
	}

	heatmap, err := h.svc.Heatmap(c.Request.Context(), kind, referenceEnd)
	if err != nil {
		h.fail(c, err, "failed computing heatmap")
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

// window parses the range kind and optional reference end date from the
// query string. Responds with 400 and returns ok=false on bad input.
func (h *AnalyticsHandler) window(c *gin.Context) (analytics.RangeKind, time.Time, bool) {
	kind, err := analytics.ParseRangeKind(c.DefaultQuery("range", string(analytics.RangeLast6Months)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", time.Time{}, false
	}

	referenceEnd := h.now()
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return "", time.Time{}, false
		}
		referenceEnd = parsed
	}
	return kind, referenceEnd, true
}

func (h *AnalyticsHandler) fail(c *gin.Context, err error, message string) {
	if errors.Is(err, analytics.ErrInvalidArgument) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
