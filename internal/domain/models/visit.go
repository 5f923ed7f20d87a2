package models

import "time"

// VisitStatus tracks a visit record through the approval workflow.
type VisitStatus string

const (
	StatusDraft     VisitStatus = "draft"
	StatusSubmitted VisitStatus = "submitted"
	StatusApproved  VisitStatus = "approved"
	StatusRejected  VisitStatus = "rejected"
)

// allowedTransitions lists the valid status moves. Approved and rejected
// records are terminal.
var allowedTransitions = map[VisitStatus][]VisitStatus{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
}

// CanTransition reports whether a record in the current status may move to next.
func (s VisitStatus) CanTransition(next VisitStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Qualifies reports whether a record in this status contributes to analytics.
// Drafts and rejections never count.
func (s VisitStatus) Qualifies() bool {
	return s == StatusSubmitted || s == StatusApproved
}

// ParseVisitStatus maps a raw token to a VisitStatus.
func ParseVisitStatus(raw string) (VisitStatus, bool) {
	switch VisitStatus(raw) {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return VisitStatus(raw), true
	}
	return "", false
}

// Category classifies a branch, highest tier first.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
	CategoryD Category = "D"
	CategoryE Category = "E"
)

// Categories returns the fixed tier list in display order (highest first).
func Categories() []Category {
	return []Category{CategoryA, CategoryB, CategoryC, CategoryD, CategoryE}
}

// ParseCategory maps a raw token to a Category.
func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryA, CategoryB, CategoryC, CategoryD, CategoryE:
		return Category(raw), true
	}
	return "", false
}

// VisitMetrics holds the optional numeric measurements captured during a
// visit. Nil means the field was not reported, which is different from a
// reported zero.
type VisitMetrics struct {
	StaffingRatio    *float64 `bson:"staffing_ratio,omitempty" json:"staffingRatio,omitempty"`
	AttritionRatio   *float64 `bson:"attrition_ratio,omitempty" json:"attritionRatio,omitempty"`
	EngagementRatio  *float64 `bson:"engagement_ratio,omitempty" json:"engagementRatio,omitempty"`
	NonVendorRatio   *float64 `bson:"non_vendor_ratio,omitempty" json:"nonVendorRatio,omitempty"`
	CaseCount        *float64 `bson:"case_count,omitempty" json:"caseCount,omitempty"`
	InvitedCount     *float64 `bson:"invited_count,omitempty" json:"invitedCount,omitempty"`
	ParticipantCount *float64 `bson:"participant_count,omitempty" json:"participantCount,omitempty"`
	CoveredNewHires  *float64 `bson:"covered_new_hires,omitempty" json:"coveredNewHires,omitempty"`
	TotalNewHires    *float64 `bson:"total_new_hires,omitempty" json:"totalNewHires,omitempty"`
}

// Qualitative holds the observational part of a visit. The first six fields
// take a five-level rating token; the last two take a yes/no token. Nil means
// the question was left unanswered.
type Qualitative struct {
	BranchUpkeep      *string `bson:"branch_upkeep,omitempty" json:"branchUpkeep,omitempty"`
	StaffMorale       *string `bson:"staff_morale,omitempty" json:"staffMorale,omitempty"`
	CustomerHandling  *string `bson:"customer_handling,omitempty" json:"customerHandling,omitempty"`
	ProcessCompliance *string `bson:"process_compliance,omitempty" json:"processCompliance,omitempty"`
	ManagerEngagement *string `bson:"manager_engagement,omitempty" json:"managerEngagement,omitempty"`
	TrainingQuality   *string `bson:"training_quality,omitempty" json:"trainingQuality,omitempty"`

	SafetyBriefingHeld        *string `bson:"safety_briefing_held,omitempty" json:"safetyBriefingHeld,omitempty"`
	GrievanceRegisterUpToDate *string `bson:"grievance_register_up_to_date,omitempty" json:"grievanceRegisterUpToDate,omitempty"`
}

// QualitativeField describes one qualitative question so callers can iterate
// the full set without reflection.
type QualitativeField struct {
	Key     string
	Boolean bool
	Value   func(q Qualitative) *string
}

// RatingFields returns the six five-level rating questions, in display order.
func RatingFields() []QualitativeField {
	return []QualitativeField{
		{Key: "branchUpkeep", Value: func(q Qualitative) *string { return q.BranchUpkeep }},
		{Key: "staffMorale", Value: func(q Qualitative) *string { return q.StaffMorale }},
		{Key: "customerHandling", Value: func(q Qualitative) *string { return q.CustomerHandling }},
		{Key: "processCompliance", Value: func(q Qualitative) *string { return q.ProcessCompliance }},
		{Key: "managerEngagement", Value: func(q Qualitative) *string { return q.ManagerEngagement }},
		{Key: "trainingQuality", Value: func(q Qualitative) *string { return q.TrainingQuality }},
	}
}

// QualitativeFields returns every qualitative question, ratings first then
// the yes/no checks.
func QualitativeFields() []QualitativeField {
	fields := RatingFields()
	return append(fields,
		QualitativeField{Key: "safetyBriefingHeld", Boolean: true, Value: func(q Qualitative) *string { return q.SafetyBriefingHeld }},
		QualitativeField{Key: "grievanceRegisterUpToDate", Boolean: true, Value: func(q Qualitative) *string { return q.GrievanceRegisterUpToDate }},
	)
}

// VisitRecord is one submitted field visit. The analytics engine treats
// records as read-only snapshots; only the status ever changes after creation.
type VisitRecord struct {
	ID          string       `bson:"_id" json:"id"`
	AgentID     string       `bson:"agent_id" json:"agentId"`
	LocationID  string       `bson:"location_id" json:"locationId"`
	VisitDate   time.Time    `bson:"visit_date" json:"visitDate"`
	Category    Category     `bson:"category" json:"category"`
	Status      VisitStatus  `bson:"status" json:"status"`
	Metrics     VisitMetrics `bson:"metrics" json:"metrics"`
	Qualitative Qualitative  `bson:"qualitative" json:"qualitative"`
	CreatedAt   time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updatedAt"`
}

// VisitFilter narrows a store fetch. Nil/empty fields are ignored.
type VisitFilter struct {
	From     *time.Time
	To       *time.Time
	Category *Category
	AgentID  string
	StatusIn []VisitStatus
}
