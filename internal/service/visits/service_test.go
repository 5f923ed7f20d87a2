package visits

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/branchpulse/branchpulse/internal/domain/models"
)

type fakeStore struct {
	records map[string]models.VisitRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]models.VisitRecord)}
}

func (f *fakeStore) FetchVisits(context.Context, models.VisitFilter) ([]models.VisitRecord, error) {
	return nil, nil
}

func (f *fakeStore) GetVisit(_ context.Context, id string) (models.VisitRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return models.VisitRecord{}, fmt.Errorf("visit %s not found", id)
	}
	return record, nil
}

func (f *fakeStore) InsertVisit(_ context.Context, record models.VisitRecord) error {
	f.records[record.ID] = record
	return nil
}

func (f *fakeStore) UpdateVisitStatus(_ context.Context, id string, status models.VisitStatus, at time.Time) error {
	record, ok := f.records[id]
	if !ok {
		return fmt.Errorf("visit %s not found", id)
	}
	record.Status = status
	record.UpdatedAt = at
	f.records[id] = record
	return nil
}

func sp(s string) *string { return &s }

func validRequest() SubmitRequest {
	return SubmitRequest{
		AgentID:    "agent-7",
		LocationID: "branch-12",
		VisitDate:  "2025-05-14",
		Category:   "B",
	}
}

func TestSubmitStoresRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	req := validRequest()
	req.Qualitative.BranchUpkeep = sp("good")
	req.Qualitative.SafetyBriefingHeld = sp("yes")

	record, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if record.ID == "" {
		t.Fatalf("record should get a generated id")
	}
	if record.Status != models.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", record.Status)
	}
	if !record.VisitDate.Equal(time.Date(2025, time.May, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("visit date = %v", record.VisitDate)
	}
	if _, ok := store.records[record.ID]; !ok {
		t.Fatalf("record was not persisted")
	}
}

func TestSubmitDraft(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	req := validRequest()
	req.Draft = true

	record, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.Status != models.StatusDraft {
		t.Fatalf("status = %s, want draft", record.Status)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	cases := []struct {
		name   string
		mutate func(*SubmitRequest)
	}{
		{"missing agent", func(r *SubmitRequest) { r.AgentID = "" }},
		{"missing location", func(r *SubmitRequest) { r.LocationID = "" }},
		{"bad date", func(r *SubmitRequest) { r.VisitDate = "14/05/2025" }},
		{"bad category", func(r *SubmitRequest) { r.Category = "F" }},
		{"bad rating token", func(r *SubmitRequest) { r.Qualitative.StaffMorale = sp("amazing") }},
		{"bad boolean token", func(r *SubmitRequest) { r.Qualitative.SafetyBriefingHeld = sp("good") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			if _, err := svc.Submit(context.Background(), req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestTransitionWorkflow(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	req := validRequest()
	req.Draft = true
	record, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	record, err = svc.Transition(context.Background(), record.ID, "submitted")
	if err != nil {
		t.Fatalf("draft -> submitted: %v", err)
	}
	record, err = svc.Transition(context.Background(), record.ID, "approved")
	if err != nil {
		t.Fatalf("submitted -> approved: %v", err)
	}

	// Approved is terminal.
	if _, err := svc.Transition(context.Background(), record.ID, "rejected"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approved record must not transition, got %v", err)
	}

	if _, err := svc.Transition(context.Background(), record.ID, "archived"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status must fail validation, got %v", err)
	}
}

func TestTransitionRejection(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	record, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	record, err = svc.Transition(context.Background(), record.ID, "rejected")
	if err != nil {
		t.Fatalf("submitted -> rejected: %v", err)
	}
	if record.Status != models.StatusRejected {
		t.Fatalf("status = %s, want rejected", record.Status)
	}
	if record.Status.Qualifies() {
		t.Fatalf("rejected records must not qualify for analytics")
	}
}
