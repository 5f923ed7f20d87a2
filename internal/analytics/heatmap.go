package analytics

import (
	"github.com/branchpulse/branchpulse/internal/domain/models"
)

// QualitativeHeatmap builds the field-by-bucket grid of average scores.
// Every qualitative field gets a row and every bucket a cell, answered or
// not; a cell with Count 0 means the field was never answered in that bucket.
func QualitativeHeatmap(records []models.VisitRecord, buckets []TimeBucket) models.Heatmap {
	fields := models.QualitativeFields()

	sums := make([][]float64, len(fields))
	counts := make([][]int, len(fields))
	for i := range fields {
		sums[i] = make([]float64, len(buckets))
		counts[i] = make([]int, len(buckets))
	}

	for _, r := range records {
		if !r.Status.Qualifies() {
			continue
		}
		bucket := -1
		for j, b := range buckets {
			if b.Contains(r.VisitDate) {
				bucket = j
				break
			}
		}
		if bucket < 0 {
			continue
		}
		for i, field := range fields {
			if score, present := ScoreOf(field.Value(r.Qualitative), field.Boolean); present {
				sums[i][bucket] += score
				counts[i][bucket]++
			}
		}
	}

	heatmap := models.Heatmap{
		Buckets: BucketLabels(buckets),
		Rows:    make([]models.HeatmapRow, 0, len(fields)),
	}
	for i, field := range fields {
		row := models.HeatmapRow{
			Field: field.Key,
			Cells: make([]models.HeatmapCell, len(buckets)),
		}
		for j := range buckets {
			if counts[i][j] > 0 {
				row.Cells[j] = models.HeatmapCell{
					Score: round2(sums[i][j] / float64(counts[i][j])),
					Count: counts[i][j],
				}
			}
		}
		heatmap.Rows = append(heatmap.Rows, row)
	}
	return heatmap
}
