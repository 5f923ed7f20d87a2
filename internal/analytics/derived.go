package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/branchpulse/branchpulse/internal/domain/models"
)

// CoveragePercent computes the share of known locations with at least one
// qualifying visit, rounded to the nearest integer percent. A zero total is
// defined as 0% coverage; a negative total is malformed input.
func CoveragePercent(records []models.VisitRecord, totalLocations int) (int, error) {
	if totalLocations < 0 {
		return 0, fmt.Errorf("%w: negative location total %d", ErrInvalidArgument, totalLocations)
	}
	if totalLocations == 0 {
		return 0, nil
	}

	visited := make(map[string]struct{})
	for _, r := range records {
		if r.Status.Qualifies() {
			visited[r.LocationID] = struct{}{}
		}
	}
	return roundPercent(float64(len(visited)) / float64(totalLocations)), nil
}

// ParticipationRate is sum(participants)/sum(invited) across qualifying
// records where both fields are present. A zero invited sum yields 0.
func ParticipationRate(records []models.VisitRecord) float64 {
	return pairedRatio(records,
		func(m models.VisitMetrics) *float64 { return m.ParticipantCount },
		func(m models.VisitMetrics) *float64 { return m.InvitedCount })
}

// NewHireCoverage is sum(coveredNewHires)/sum(totalNewHires), same rules as
// ParticipationRate.
func NewHireCoverage(records []models.VisitRecord) float64 {
	return pairedRatio(records,
		func(m models.VisitMetrics) *float64 { return m.CoveredNewHires },
		func(m models.VisitMetrics) *float64 { return m.TotalNewHires })
}

func pairedRatio(records []models.VisitRecord, numerator, denominator func(models.VisitMetrics) *float64) float64 {
	var num, den float64
	for _, r := range records {
		if !r.Status.Qualifies() {
			continue
		}
		n, d := numerator(r.Metrics), denominator(r.Metrics)
		if n == nil || d == nil {
			continue
		}
		num += *n
		den += *d
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// AgentScore is one agent's composite qualitative score plus the visit count
// behind it. The visit count is informational only; ranking never uses it.
type AgentScore struct {
	AgentID   string
	Composite float64
	Visits    int
}

// CompositeScores computes the per-agent composite: the mean of the six
// rating-field averages, each average taken over the agent's answered
// occurrences of that field, rounded to two decimals. Agents with no
// qualifying records do not appear. Output order is first-encountered.
func CompositeScores(records []models.VisitRecord) []AgentScore {
	fields := models.RatingFields()

	type agentAccumulator struct {
		sums   []float64
		counts []int
		visits int
	}

	accumulators := make(map[string]*agentAccumulator)
	var order []string

	for _, r := range records {
		if !r.Status.Qualifies() {
			continue
		}
		acc, ok := accumulators[r.AgentID]
		if !ok {
			acc = &agentAccumulator{
				sums:   make([]float64, len(fields)),
				counts: make([]int, len(fields)),
			}
			accumulators[r.AgentID] = acc
			order = append(order, r.AgentID)
		}
		acc.visits++

		for i, field := range fields {
			if score, present := ScoreOf(field.Value(r.Qualitative), field.Boolean); present {
				acc.sums[i] += score
				acc.counts[i]++
			}
		}
	}

	scores := make([]AgentScore, 0, len(order))
	for _, agentID := range order {
		acc := accumulators[agentID]
		var total float64
		for i := range fields {
			if acc.counts[i] > 0 {
				total += acc.sums[i] / float64(acc.counts[i])
			}
		}
		scores = append(scores, AgentScore{
			AgentID:   agentID,
			Composite: round2(total / float64(len(fields))),
			Visits:    acc.visits,
		})
	}
	return scores
}

// TopPerformers ranks agents descending by composite score. The sort is
// stable: equal scores keep first-encountered order, with no secondary key.
// limit <= 0 returns the full ranking.
func TopPerformers(records []models.VisitRecord, limit int) []AgentScore {
	scores := CompositeScores(records)
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Composite > scores[j].Composite
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// OverallComposite is the mean of the six rating-field averages taken across
// every qualifying record, rounded to two decimals. 0 when nothing was rated.
func OverallComposite(records []models.VisitRecord) float64 {
	fields := models.RatingFields()
	sums := make([]float64, len(fields))
	counts := make([]int, len(fields))

	for _, r := range records {
		if !r.Status.Qualifies() {
			continue
		}
		for i, field := range fields {
			if score, present := ScoreOf(field.Value(r.Qualitative), field.Boolean); present {
				sums[i] += score
				counts[i]++
			}
		}
	}

	var total float64
	for i := range fields {
		if counts[i] > 0 {
			total += sums[i] / float64(counts[i])
		}
	}
	return round2(total / float64(len(fields)))
}

// CategoryBreakdown summarizes coverage per branch tier. branchesByCategory
// supplies the roster denominators; tiers with no branches report zeros.
// Rows always cover all five tiers in display order.
func CategoryBreakdown(records []models.VisitRecord, branchesByCategory map[models.Category]int) ([]models.CategoryBreakdownRow, error) {
	for category, total := range branchesByCategory {
		if total < 0 {
			return nil, fmt.Errorf("%w: negative branch total %d for category %s", ErrInvalidArgument, total, category)
		}
	}

	visited := make(map[models.Category]map[string]struct{})
	visitCounts := make(map[models.Category]int)
	for _, r := range records {
		if !r.Status.Qualifies() {
			continue
		}
		if visited[r.Category] == nil {
			visited[r.Category] = make(map[string]struct{})
		}
		visited[r.Category][r.LocationID] = struct{}{}
		visitCounts[r.Category]++
	}

	rows := make([]models.CategoryBreakdownRow, 0, len(models.Categories()))
	for _, category := range models.Categories() {
		branches := branchesByCategory[category]
		row := models.CategoryBreakdownRow{
			Category:        category,
			Branches:        branches,
			VisitedBranches: len(visited[category]),
		}
		if branches > 0 {
			row.CoveragePercent = roundPercent(float64(row.VisitedBranches) / float64(branches))
			row.AvgVisitsPerBranch = round1(float64(visitCounts[category]) / float64(branches))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func roundPercent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
