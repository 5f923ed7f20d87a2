package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	repo "github.com/branchpulse/branchpulse/internal/repository/mongodb"
	"github.com/branchpulse/branchpulse/internal/repository/sheets"
	"github.com/branchpulse/branchpulse/internal/service/visits"
)

// VisitHandler serves the submission and approval workflow endpoints.
type VisitHandler struct {
	svc       *visits.Service
	roster    sheets.RosterSource
	locations repo.LocationStore
	logger    *zap.Logger
}

// NewVisitHandler constructs the HTTP handler adapter. roster may be nil
// when the Sheets import is not configured.
func NewVisitHandler(svc *visits.Service, roster sheets.RosterSource, locations repo.LocationStore, logger *zap.Logger) *VisitHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitHandler{svc: svc, roster: roster, locations: locations, logger: logger}
}

// Submit creates a new visit record.
func (h *VisitHandler) Submit(c *gin.Context) {
	var req visits.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid visit payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, visits.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed storing visit", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store visit"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateStatus applies an approval-workflow transition to a record.
func (h *VisitHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrValidation), errors.Is(err, visits.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, mongo.ErrNoDocuments):
			c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
		default:
			h.logger.Error("failed updating visit status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to update status"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// ImportRoster reads the branch roster from the configured sheet and upserts
// it into the location store.
func (h *VisitHandler) ImportRoster(c *gin.Context) {
	if h.roster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "roster import not configured"})
		return
	}

	written, err := ImportRoster(c.Request.Context(), h.roster, h.locations)
	if err != nil {
		h.logger.Error("roster import failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "roster import failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": written})
}

// ImportRoster pulls the roster rows and writes them to the location store.
// Shared between the HTTP endpoint and the startup import.
func ImportRoster(ctx context.Context, roster sheets.RosterSource, locations repo.LocationStore) (int, error) {
	rows, err := roster.ReadRoster(ctx)
	if err != nil {
		return 0, err
	}
	return locations.UpsertLocations(ctx, rows)
}
