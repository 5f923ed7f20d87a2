package insights

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/branchpulse/branchpulse/internal/analytics"
	"github.com/branchpulse/branchpulse/internal/domain/models"
	repo "github.com/branchpulse/branchpulse/internal/repository/mongodb"
)

// qualifyingStatuses is what the engine counts; draft and rejected records
// are fetched out by the store filter and re-checked by the engine itself.
var qualifyingStatuses = []models.VisitStatus{models.StatusSubmitted, models.StatusApproved}

// Service is the entry point for the named analytics queries. Each call
// fetches a fresh snapshot from the stores and runs the pure aggregation
// engine over it; nothing is cached between calls.
type Service struct {
	visits    repo.VisitStore
	locations repo.LocationStore
	logger    *zap.Logger
}

// NewService wires an insights service instance.
func NewService(visits repo.VisitStore, locations repo.LocationStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{visits: visits, locations: locations, logger: logger}
}

// DashboardStats computes the headline numbers over the full record set.
func (s *Service) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	records, err := s.fetchQualifying(ctx, models.VisitFilter{})
	if err != nil {
		return models.DashboardStats{}, err
	}

	totalLocations, err := s.locations.CountTotal(ctx, nil)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count locations: %w", err)
	}

	coverage, err := analytics.CoveragePercent(records, totalLocations)
	if err != nil {
		return models.DashboardStats{}, err
	}

	agents := make(map[string]struct{})
	for _, r := range records {
		agents[r.AgentID] = struct{}{}
	}

	stats := models.DashboardStats{
		TotalVisits:            len(records),
		ActiveAgents:           len(agents),
		CoveragePercent:        coverage,
		ParticipationPercent:   percentOf(analytics.ParticipationRate(records)),
		NewHireCoveragePercent: percentOf(analytics.NewHireCoverage(records)),
		OverallComposite:       analytics.OverallComposite(records),
	}

	s.logger.Debug("dashboard stats computed",
		zap.Int("visits", stats.TotalVisits),
		zap.Int("coverage_percent", stats.CoveragePercent))
	return stats, nil
}

// Trend aggregates every numeric metric per time bucket of the requested
// window. Buckets with no visits appear with zeroed summaries.
func (s *Service) Trend(ctx context.Context, kind analytics.RangeKind, referenceEnd time.Time) ([]models.TrendPoint, error) {
	buckets, err := analytics.Partition(kind, referenceEnd)
	if err != nil {
		return nil, err
	}

	records, err := s.fetchWindow(ctx, buckets)
	if err != nil {
		return nil, err
	}

	rows := analytics.Aggregate(records, analytics.ByBucket(buckets), analytics.BucketKeys(buckets), analytics.MetricSelectors())

	points := make([]models.TrendPoint, 0, len(rows))
	for i, row := range rows {
		point := models.TrendPoint{
			Label:   buckets[i].Label,
			Visits:  row.Records,
			Metrics: make(map[string]models.MetricPoint, len(row.Metrics)),
		}
		for name, summary := range row.Metrics {
			point.Metrics[name] = models.MetricPoint{Value: summary.Mean, Count: summary.Count}
		}
		points = append(points, point)
	}
	return points, nil
}

// TopPerformers ranks agents by composite qualitative score over the full
// record set. limit <= 0 returns everyone with at least one qualifying visit.
func (s *Service) TopPerformers(ctx context.Context, limit int) ([]models.PerformerSummary, error) {
	records, err := s.fetchQualifying(ctx, models.VisitFilter{})
	if err != nil {
		return nil, err
	}

	ranked := analytics.TopPerformers(records, limit)
	summaries := make([]models.PerformerSummary, 0, len(ranked))
	for _, score := range ranked {
		summaries = append(summaries, models.PerformerSummary{
			AgentID:   score.AgentID,
			Composite: score.Composite,
			Visits:    score.Visits,
		})
	}
	return summaries, nil
}

// CategoryBreakdown summarizes visit coverage per branch tier.
func (s *Service) CategoryBreakdown(ctx context.Context) ([]models.CategoryBreakdownRow, error) {
	records, err := s.fetchQualifying(ctx, models.VisitFilter{})
	if err != nil {
		return nil, err
	}

	branchCounts, err := s.locations.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count branches by category: %w", err)
	}

	return analytics.CategoryBreakdown(records, branchCounts)
}

// Heatmap builds the qualitative-field-by-bucket grid for the window.
func (s *Service) Heatmap(ctx context.Context, kind analytics.RangeKind, referenceEnd time.Time) (models.Heatmap, error) {
	buckets, err := analytics.Partition(kind, referenceEnd)
	if err != nil {
		return models.Heatmap{}, err
	}

	records, err := s.fetchWindow(ctx, buckets)
	if err != nil {
		return models.Heatmap{}, err
	}

	return analytics.QualitativeHeatmap(records, buckets), nil
}

// Digest bundles the daily webhook payload: headline stats plus the top five
// agents.
func (s *Service) Digest(ctx context.Context, now time.Time) (models.Digest, error) {
	stats, err := s.DashboardStats(ctx)
	if err != nil {
		return models.Digest{}, err
	}

	top, err := s.TopPerformers(ctx, 5)
	if err != nil {
		return models.Digest{}, err
	}

	return models.Digest{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Stats:       stats,
		TopAgents:   top,
	}, nil
}

// fetchQualifying pulls submitted/approved records and re-applies the status
// filter locally; the store is not trusted to have pre-filtered.
func (s *Service) fetchQualifying(ctx context.Context, filter models.VisitFilter) ([]models.VisitRecord, error) {
	filter.StatusIn = qualifyingStatuses
	records, err := s.visits.FetchVisits(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch visit records: %w", err)
	}
	return analytics.Qualifying(records), nil
}

func (s *Service) fetchWindow(ctx context.Context, buckets []analytics.TimeBucket) ([]models.VisitRecord, error) {
	if len(buckets) == 0 {
		return nil, nil
	}
	from := buckets[0].Start
	to := buckets[len(buckets)-1].End
	return s.fetchQualifying(ctx, models.VisitFilter{From: &from, To: &to})
}

func percentOf(ratio float64) int {
	return int(math.Round(ratio * 100))
}
