package analytics

import (
	"github.com/branchpulse/branchpulse/internal/domain/models"
)

// MetricSelector names one numeric metric and how to read it off a record.
// A nil return means the record carries no observation for the metric.
type MetricSelector struct {
	Name  string
	Value func(r models.VisitRecord) *float64
}

// MetricSelectors returns the full numeric metric set in report order.
func MetricSelectors() []MetricSelector {
	return []MetricSelector{
		{Name: "staffingRatio", Value: func(r models.VisitRecord) *float64 { return r.Metrics.StaffingRatio }},
		{Name: "attritionRatio", Value: func(r models.VisitRecord) *float64 { return r.Metrics.AttritionRatio }},
		{Name: "engagementRatio", Value: func(r models.VisitRecord) *float64 { return r.Metrics.EngagementRatio }},
		{Name: "nonVendorRatio", Value: func(r models.VisitRecord) *float64 { return r.Metrics.NonVendorRatio }},
		{Name: "caseCount", Value: func(r models.VisitRecord) *float64 { return r.Metrics.CaseCount }},
		{Name: "invitedCount", Value: func(r models.VisitRecord) *float64 { return r.Metrics.InvitedCount }},
		{Name: "participantCount", Value: func(r models.VisitRecord) *float64 { return r.Metrics.ParticipantCount }},
		{Name: "coveredNewHires", Value: func(r models.VisitRecord) *float64 { return r.Metrics.CoveredNewHires }},
		{Name: "totalNewHires", Value: func(r models.VisitRecord) *float64 { return r.Metrics.TotalNewHires }},
	}
}

// MetricSummary is the per-group result for one metric. Mean is 0 when Count
// is 0; the count is what separates "no data" from a true zero average.
type MetricSummary struct {
	Mean  float64
	Sum   float64
	Count int
}

// AggregateRow is one group of the aggregation output: the group key, the
// number of qualifying records in the group, and one summary per requested
// metric.
type AggregateRow struct {
	Key     string
	Records int
	Metrics map[string]MetricSummary
}

// GroupKeyFn assigns a record to a group. ok=false drops the record from
// this aggregation (for example a visit date outside every bucket).
type GroupKeyFn func(r models.VisitRecord) (key string, ok bool)

// ByBucket groups records into the bucket containing their visit date,
// keyed by bucket start date.
func ByBucket(buckets []TimeBucket) GroupKeyFn {
	return func(r models.VisitRecord) (string, bool) {
		for _, b := range buckets {
			if b.Contains(r.VisitDate) {
				return b.Key(), true
			}
		}
		return "", false
	}
}

// ByCategory groups records by branch tier.
func ByCategory(r models.VisitRecord) (string, bool) {
	return string(r.Category), true
}

// ByAgent groups records by the submitting agent.
func ByAgent(r models.VisitRecord) (string, bool) {
	return r.AgentID, true
}

// BucketKeys extracts the ordered key list for use as preset group keys.
func BucketKeys(buckets []TimeBucket) []string {
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key()
	}
	return keys
}

// BucketLabels extracts the ordered display labels.
func BucketLabels(buckets []TimeBucket) []string {
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	return labels
}

// Aggregate runs a single pass over the records, keeping one running
// (sum, count) accumulator per (group, metric) pair. Draft and rejected
// records never contribute. When presetKeys is non-nil the output contains
// exactly one row per preset key in that order (empty groups included);
// otherwise rows appear in first-seen order.
func Aggregate(records []models.VisitRecord, keyFn GroupKeyFn, presetKeys []string, selectors []MetricSelector) []AggregateRow {
	type accumulator struct {
		sum   float64
		count int
	}

	cells := make(map[string]map[string]*accumulator)
	visits := make(map[string]int)
	order := make([]string, 0, len(presetKeys))

	for _, key := range presetKeys {
		order = append(order, key)
		cells[key] = make(map[string]*accumulator)
	}

	for _, record := range records {
		if !record.Status.Qualifies() {
			continue
		}
		key, ok := keyFn(record)
		if !ok {
			continue
		}

		group, seen := cells[key]
		if !seen {
			if presetKeys != nil {
				// Keys outside the preset set are out of scope for this
				// aggregation.
				continue
			}
			group = make(map[string]*accumulator)
			cells[key] = group
			order = append(order, key)
		}
		visits[key]++

		for _, selector := range selectors {
			value := selector.Value(record)
			if value == nil {
				continue
			}
			acc := group[selector.Name]
			if acc == nil {
				acc = &accumulator{}
				group[selector.Name] = acc
			}
			acc.sum += *value
			acc.count++
		}
	}

	rows := make([]AggregateRow, 0, len(order))
	for _, key := range order {
		row := AggregateRow{
			Key:     key,
			Records: visits[key],
			Metrics: make(map[string]MetricSummary, len(selectors)),
		}
		for _, selector := range selectors {
			summary := MetricSummary{}
			if acc := cells[key][selector.Name]; acc != nil && acc.count > 0 {
				summary = MetricSummary{
					Mean:  acc.sum / float64(acc.count),
					Sum:   acc.sum,
					Count: acc.count,
				}
			}
			row.Metrics[selector.Name] = summary
		}
		rows = append(rows, row)
	}
	return rows
}

// Qualifying returns the subset of records that contribute to analytics:
// submitted or approved only.
func Qualifying(records []models.VisitRecord) []models.VisitRecord {
	out := make([]models.VisitRecord, 0, len(records))
	for _, r := range records {
		if r.Status.Qualifies() {
			out = append(out, r)
		}
	}
	return out
}
