package models

// MetricPoint pairs an averaged value with the number of observations behind
// it, so consumers can tell "no data" (Count == 0) from a true zero average.
type MetricPoint struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// DashboardStats is the headline summary shown on the dashboard.
type DashboardStats struct {
	TotalVisits            int     `json:"totalVisits"`
	ActiveAgents           int     `json:"activeAgents"`
	CoveragePercent        int     `json:"coveragePercent"`
	ParticipationPercent   int     `json:"participationPercent"`
	NewHireCoveragePercent int     `json:"newHireCoveragePercent"`
	OverallComposite       float64 `json:"overallComposite"`
}

// TrendPoint is one time bucket on a trend line.
type TrendPoint struct {
	Label   string                 `json:"label"`
	Visits  int                    `json:"visits"`
	Metrics map[string]MetricPoint `json:"metrics"`
}

// PerformerSummary ranks one agent by composite qualitative score.
type PerformerSummary struct {
	AgentID   string  `json:"agentId"`
	Composite float64 `json:"composite"`
	Visits    int     `json:"visits"`
}

// CategoryBreakdownRow summarizes one branch tier.
type CategoryBreakdownRow struct {
	Category           Category `json:"category"`
	Branches           int      `json:"branches"`
	VisitedBranches    int      `json:"visitedBranches"`
	CoveragePercent    int      `json:"coveragePercent"`
	AvgVisitsPerBranch float64  `json:"avgVisitsPerBranch"`
}

// HeatmapCell is one qualitative-field average inside one time bucket.
type HeatmapCell struct {
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// HeatmapRow is one qualitative field across every bucket of the window.
type HeatmapRow struct {
	Field string        `json:"field"`
	Cells []HeatmapCell `json:"cells"`
}

// Heatmap is the qualitative-field-by-time-bucket grid.
type Heatmap struct {
	Buckets []string     `json:"buckets"`
	Rows    []HeatmapRow `json:"rows"`
}

// Digest is the payload pushed to the configured webhook by the scheduled
// daily job.
type Digest struct {
	GeneratedAt string             `json:"generatedAt"`
	Stats       DashboardStats     `json:"stats"`
	TopAgents   []PerformerSummary `json:"topAgents"`
}
