package visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/branchpulse/branchpulse/internal/analytics"
	"github.com/branchpulse/branchpulse/internal/domain/models"
	repo "github.com/branchpulse/branchpulse/internal/repository/mongodb"
)

// ErrInvalidTransition is returned when a status move is not allowed by the
// approval workflow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrValidation marks a malformed submission payload.
var ErrValidation = errors.New("invalid visit submission")

// SubmitRequest carries a new field-visit report.
type SubmitRequest struct {
	AgentID     string              `json:"agentId"`
	LocationID  string              `json:"locationId"`
	VisitDate   string              `json:"visitDate"`
	Category    string              `json:"category"`
	Draft       bool                `json:"draft"`
	Metrics     models.VisitMetrics `json:"metrics"`
	Qualitative models.Qualitative  `json:"qualitative"`
}

// Service runs the submission and approval workflow.
type Service struct {
	store  repo.VisitStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a visit workflow service instance.
func NewService(store repo.VisitStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Submit validates the payload, mints an id and stores the record as draft
// or submitted.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (models.VisitRecord, error) {
	if req.AgentID == "" {
		return models.VisitRecord{}, fmt.Errorf("%w: agentId required", ErrValidation)
	}
	if req.LocationID == "" {
		return models.VisitRecord{}, fmt.Errorf("%w: locationId required", ErrValidation)
	}

	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return models.VisitRecord{}, fmt.Errorf("%w: visitDate must be YYYY-MM-DD: %v", ErrValidation, err)
	}

	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return models.VisitRecord{}, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	if err := validateQualitative(req.Qualitative); err != nil {
		return models.VisitRecord{}, err
	}

	status := models.StatusSubmitted
	if req.Draft {
		status = models.StatusDraft
	}

	now := s.now().UTC()
	record := models.VisitRecord{
		ID:          uuid.NewString(),
		AgentID:     req.AgentID,
		LocationID:  req.LocationID,
		VisitDate:   analytics.DateOf(visitDate),
		Category:    category,
		Status:      status,
		Metrics:     req.Metrics,
		Qualitative: req.Qualitative,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.InsertVisit(ctx, record); err != nil {
		return models.VisitRecord{}, err
	}

	s.logger.Info("visit recorded",
		zap.String("visit_id", record.ID),
		zap.String("agent_id", record.AgentID),
		zap.String("status", string(record.Status)))
	return record, nil
}

// Transition moves a record through the approval workflow:
// draft -> submitted -> approved/rejected. Anything else is rejected.
func (s *Service) Transition(ctx context.Context, id, rawStatus string) (models.VisitRecord, error) {
	next, ok := models.ParseVisitStatus(rawStatus)
	if !ok {
		return models.VisitRecord{}, fmt.Errorf("%w: unknown status %q", ErrValidation, rawStatus)
	}

	record, err := s.store.GetVisit(ctx, id)
	if err != nil {
		return models.VisitRecord{}, err
	}

	if !record.Status.CanTransition(next) {
		return models.VisitRecord{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, record.Status, next)
	}

	now := s.now().UTC()
	if err := s.store.UpdateVisitStatus(ctx, id, next, now); err != nil {
		return models.VisitRecord{}, err
	}

	record.Status = next
	record.UpdatedAt = now

	s.logger.Info("visit status changed",
		zap.String("visit_id", id),
		zap.String("status", string(next)))
	return record, nil
}

func validateQualitative(q models.Qualitative) error {
	for _, field := range models.QualitativeFields() {
		token := field.Value(q)
		if token == nil {
			continue
		}
		if field.Boolean {
			if !analytics.ValidBooleanToken(*token) {
				return fmt.Errorf("%w: %s must be yes or no, got %q", ErrValidation, field.Key, *token)
			}
			continue
		}
		if !analytics.ValidRatingToken(*token) {
			return fmt.Errorf("%w: %s is not a valid rating token: %q", ErrValidation, field.Key, *token)
		}
	}
	return nil
}
