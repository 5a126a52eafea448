package doctor

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepository struct {
	createDoctorFunc     func(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error)
	listDoctorsFunc      func(ctx context.Context, limit, offset int) ([]DoctorResponse, int, error)
	getDoctorFunc        func(ctx context.Context, id int64) (*DoctorResponse, error)
	getDoctorByEmailFunc func(ctx context.Context, email string) (*DoctorResponse, error)
	updateDoctorFunc     func(ctx context.Context, id int64, req UpdateDoctorRequest) (*DoctorResponse, error)
	deleteDoctorFunc     func(ctx context.Context, id int64) error
	listBookedSlotsFunc  func(ctx context.Context, doctorID int64, excludeStatus string, from, to time.Time) ([]BookedSlot, error)
}

func (m *mockRepository) CreateDoctor(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error) {
	return m.createDoctorFunc(ctx, req)
}
func (m *mockRepository) ListDoctors(ctx context.Context, limit, offset int) ([]DoctorResponse, int, error) {
	return m.listDoctorsFunc(ctx, limit, offset)
}
func (m *mockRepository) GetDoctor(ctx context.Context, id int64) (*DoctorResponse, error) {
	return m.getDoctorFunc(ctx, id)
}
func (m *mockRepository) GetDoctorByEmail(ctx context.Context, email string) (*DoctorResponse, error) {
	return m.getDoctorByEmailFunc(ctx, email)
}
func (m *mockRepository) UpdateDoctor(ctx context.Context, id int64, req UpdateDoctorRequest) (*DoctorResponse, error) {
	return m.updateDoctorFunc(ctx, id, req)
}
func (m *mockRepository) DeleteDoctor(ctx context.Context, id int64) error {
	return m.deleteDoctorFunc(ctx, id)
}
func (m *mockRepository) ListBookedSlots(ctx context.Context, doctorID int64, excludeStatus string, from, to time.Time) ([]BookedSlot, error) {
	return m.listBookedSlotsFunc(ctx, doctorID, excludeStatus, from, to)
}

func existingDoctor(id int64) func(ctx context.Context, id int64) (*DoctorResponse, error) {
	return func(ctx context.Context, gotID int64) (*DoctorResponse, error) {
		return &DoctorResponse{ID: gotID, Email: "dr@example.com"}, nil
	}
}

func slotAt(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Bad test timestamp %q: %v", value, err)
	}
	return ts
}

func containsSlot(slots []time.Time, target time.Time) bool {
	for _, s := range slots {
		if s.Equal(target) {
			return true
		}
	}
	return false
}

func TestAvailableSlots_EmptyCalendar(t *testing.T) {
	mockRepo := &mockRepository{
		getDoctorFunc: existingDoctor(1),
		listBookedSlotsFunc: func(ctx context.Context, doctorID int64, excludeStatus string, from, to time.Time) ([]BookedSlot, error) {
			if excludeStatus != "CANCELLED" {
				t.Errorf("Expected CANCELLED excluded, got %q", excludeStatus)
			}
			return nil, nil
		},
	}
	service := NewService(mockRepo)

	resp, err := service.AvailableSlots(context.Background(), 1, "2026-09-07")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// 08:00 through 15:30 in 30-minute steps.
	if len(resp.Slots) != 16 {
		t.Fatalf("Expected 16 slots for an empty day, got %d", len(resp.Slots))
	}
	if !resp.Slots[0].Equal(slotAt(t, "2026-09-07T08:00:00Z")) {
		t.Errorf("Expected first slot at 08:00, got %v", resp.Slots[0])
	}
	if !resp.Slots[15].Equal(slotAt(t, "2026-09-07T15:30:00Z")) {
		t.Errorf("Expected last slot at 15:30, got %v", resp.Slots[15])
	}
}

func TestAvailableSlots_ScheduledVisitBlocksWindow(t *testing.T) {
	mockRepo := &mockRepository{
		getDoctorFunc: existingDoctor(1),
		listBookedSlotsFunc: func(ctx context.Context, doctorID int64, excludeStatus string, from, to time.Time) ([]BookedSlot, error) {
			return []BookedSlot{
				// Off-grid visit blocks the slots on both sides.
				{VisitTime: slotAt(t, "2026-09-07T10:15:00Z"), Status: "SCHEDULED"},
			}, nil
		},
	}
	service := NewService(mockRepo)

	resp, err := service.AvailableSlots(context.Background(), 1, "2026-09-07")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if containsSlot(resp.Slots, slotAt(t, "2026-09-07T10:00:00Z")) {
		t.Error("10:00 should be blocked by the 10:15 visit")
	}
	if containsSlot(resp.Slots, slotAt(t, "2026-09-07T10:30:00Z")) {
		t.Error("10:30 should be blocked by the 10:15 visit")
	}
	if !containsSlot(resp.Slots, slotAt(t, "2026-09-07T09:30:00Z")) {
		t.Error("09:30 should stay free")
	}
	if !containsSlot(resp.Slots, slotAt(t, "2026-09-07T11:00:00Z")) {
		t.Error("11:00 should stay free")
	}
}

func TestAvailableSlots_CompletedVisitDoesNotBlock(t *testing.T) {
	mockRepo := &mockRepository{
		getDoctorFunc: existingDoctor(1),
		listBookedSlotsFunc: func(ctx context.Context, doctorID int64, excludeStatus string, from, to time.Time) ([]BookedSlot, error) {
			return []BookedSlot{
				{VisitTime: slotAt(t, "2026-09-07T10:00:00Z"), Status: "COMPLETED"},
			}, nil
		},
	}
	service := NewService(mockRepo)

	resp, err := service.AvailableSlots(context.Background(), 1, "2026-09-07")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !containsSlot(resp.Slots, slotAt(t, "2026-09-07T10:00:00Z")) {
		t.Error("Completed visit must not block the slot")
	}
}

func TestAvailableSlots_UnknownDoctor(t *testing.T) {
	mockRepo := &mockRepository{
		getDoctorFunc: func(ctx context.Context, id int64) (*DoctorResponse, error) {
			return nil, ErrNotFound
		},
	}
	service := NewService(mockRepo)

	if _, err := service.AvailableSlots(context.Background(), 99, "2026-09-07"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAvailableSlots_BadDate(t *testing.T) {
	service := NewService(&mockRepository{})

	if _, err := service.AvailableSlots(context.Background(), 1, "07.09.2026"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
}
