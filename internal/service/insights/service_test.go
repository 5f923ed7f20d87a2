package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/branchpulse/branchpulse/internal/analytics"
	"github.com/branchpulse/branchpulse/internal/domain/models"
)

type fakeVisitStore struct {
	records    []models.VisitRecord
	lastFilter models.VisitFilter
}

func (f *fakeVisitStore) FetchVisits(_ context.Context, filter models.VisitFilter) ([]models.VisitRecord, error) {
	f.lastFilter = filter
	return f.records, nil
}

func (f *fakeVisitStore) GetVisit(context.Context, string) (models.VisitRecord, error) {
	return models.VisitRecord{}, errors.New("not implemented")
}

func (f *fakeVisitStore) InsertVisit(context.Context, models.VisitRecord) error { return nil }

func (f *fakeVisitStore) UpdateVisitStatus(context.Context, string, models.VisitStatus, time.Time) error {
	return nil
}

type fakeLocationStore struct {
	byCategory map[models.Category]int
}

func (f *fakeLocationStore) CountTotal(_ context.Context, category *models.Category) (int, error) {
	if category != nil {
		return f.byCategory[*category], nil
	}
	total := 0
	for _, n := range f.byCategory {
		total += n
	}
	return total, nil
}

func (f *fakeLocationStore) CountByCategory(context.Context) (map[models.Category]int, error) {
	return f.byCategory, nil
}

func (f *fakeLocationStore) UpsertLocations(_ context.Context, locations []models.Location) (int, error) {
	return len(locations), nil
}

func fp(v float64) *float64 { return &v }
func sp(s string) *string   { return &s }

func approvedVisit(agent, location string, day time.Time) models.VisitRecord {
	return models.VisitRecord{
		ID:         agent + location,
		AgentID:    agent,
		LocationID: location,
		VisitDate:  day,
		Category:   models.CategoryA,
		Status:     models.StatusApproved,
	}
}

func TestDashboardStatsEmptyRecordSet(t *testing.T) {
	svc := NewService(&fakeVisitStore{}, &fakeLocationStore{}, nil)

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("empty record set must not be an error: %v", err)
	}

	if stats.TotalVisits != 0 || stats.CoveragePercent != 0 || stats.OverallComposite != 0 {
		t.Fatalf("empty record set should yield zero-valued stats, got %+v", stats)
	}
}

func TestDashboardStats(t *testing.T) {
	v1 := approvedVisit("a1", "l1", time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	v1.Metrics.InvitedCount = fp(50)
	v1.Metrics.ParticipantCount = fp(25)
	v1.Qualitative.BranchUpkeep = sp("excellent")

	v2 := approvedVisit("a2", "l2", time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC))

	visitStore := &fakeVisitStore{records: []models.VisitRecord{v1, v2}}
	locationStore := &fakeLocationStore{byCategory: map[models.Category]int{models.CategoryA: 4}}
	svc := NewService(visitStore, locationStore, nil)

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}

	if stats.TotalVisits != 2 || stats.ActiveAgents != 2 {
		t.Errorf("counts = %+v, want 2 visits from 2 agents", stats)
	}
	if stats.CoveragePercent != 50 {
		t.Errorf("coverage = %d, want 50 (2 of 4 locations)", stats.CoveragePercent)
	}
	if stats.ParticipationPercent != 50 {
		t.Errorf("participation = %d, want 50", stats.ParticipationPercent)
	}

	statuses := visitStore.lastFilter.StatusIn
	if len(statuses) != 2 {
		t.Fatalf("store fetch must be limited to qualifying statuses, got %v", statuses)
	}
}

func TestTrendWindowAndShape(t *testing.T) {
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	record := approvedVisit("a1", "l1", day)
	record.Metrics.StaffingRatio = fp(85)

	visitStore := &fakeVisitStore{records: []models.VisitRecord{record}}
	svc := NewService(visitStore, &fakeLocationStore{}, nil)

	end := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	points, err := svc.Trend(context.Background(), analytics.RangeLast3Months, end)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}

	if len(points) != 4 {
		t.Fatalf("expected 4 monthly points for last-3-months, got %d", len(points))
	}
	if points[0].Label != "Mar" || points[3].Label != "Jun" {
		t.Fatalf("unexpected labels: %q .. %q", points[0].Label, points[3].Label)
	}

	jun := points[3]
	if jun.Visits != 1 {
		t.Errorf("june visits = %d, want 1", jun.Visits)
	}
	if got := jun.Metrics["staffingRatio"]; got.Value != 85 || got.Count != 1 {
		t.Errorf("june staffing = %+v, want 85 with count 1", got)
	}

	// The store fetch must be bounded to the partitioned window.
	if visitStore.lastFilter.From == nil || visitStore.lastFilter.To == nil {
		t.Fatalf("trend fetch should carry a date range, got %+v", visitStore.lastFilter)
	}
	if !visitStore.lastFilter.From.Equal(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window start = %v, want 2025-03-15", visitStore.lastFilter.From)
	}
}

func TestTrendUnknownRangeKind(t *testing.T) {
	svc := NewService(&fakeVisitStore{}, &fakeLocationStore{}, nil)

	_, err := svc.Trend(context.Background(), analytics.RangeKind("fortnight"), time.Now())
	if !errors.Is(err, analytics.ErrInvalidArgument) {
		t.Fatalf("unknown range kind should surface ErrInvalidArgument, got %v", err)
	}
}

func TestTopPerformersOrdering(t *testing.T) {
	low := approvedVisit("low", "l1", time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	low.Qualitative.BranchUpkeep = sp("neutral")
	high := approvedVisit("high", "l2", time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC))
	high.Qualitative.BranchUpkeep = sp("excellent")

	svc := NewService(&fakeVisitStore{records: []models.VisitRecord{low, high}}, &fakeLocationStore{}, nil)

	performers, err := svc.TopPerformers(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopPerformers: %v", err)
	}
	if len(performers) != 2 || performers[0].AgentID != "high" {
		t.Fatalf("unexpected ranking: %+v", performers)
	}
}

func TestCategoryBreakdownUsesRosterCounts(t *testing.T) {
	record := approvedVisit("a1", "l1", time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	svc := NewService(
		&fakeVisitStore{records: []models.VisitRecord{record}},
		&fakeLocationStore{byCategory: map[models.Category]int{models.CategoryA: 2}},
		nil,
	)

	rows, err := svc.CategoryBreakdown(context.Background())
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected five tiers, got %d", len(rows))
	}
	if rows[0].CoveragePercent != 50 {
		t.Fatalf("tier A coverage = %d, want 50", rows[0].CoveragePercent)
	}
}

func TestDigest(t *testing.T) {
	record := approvedVisit("a1", "l1", time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	record.Qualitative.BranchUpkeep = sp("good")

	svc := NewService(&fakeVisitStore{records: []models.VisitRecord{record}}, &fakeLocationStore{}, nil)

	now := time.Date(2025, time.June, 1, 7, 0, 0, 0, time.UTC)
	digest, err := svc.Digest(context.Background(), now)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if digest.GeneratedAt != "2025-06-01T07:00:00Z" {
		t.Errorf("generatedAt = %q", digest.GeneratedAt)
	}
	if digest.Stats.TotalVisits != 1 || len(digest.TopAgents) != 1 {
		t.Errorf("digest payload incomplete: %+v", digest)
	}
}
