package doctor

import (
	"context"
	"time"
)

// Working day and slot geometry for the appointment grid. A slot is
// free when no scheduled visit lies within the conflict window around
// it, mirroring the scheduler's conflict rule.
const (
	WorkDayStartHour = 8
	WorkDayEndHour   = 16
	SlotLength       = 30 * time.Minute
	conflictWindow   = 29 * time.Minute
)

// AvailableSlots returns the free 30-minute appointment slots for the
// doctor on the given day (YYYY-MM-DD, interpreted in UTC).
func (s *Service) AvailableSlots(ctx context.Context, doctorID int64, date string) (*AvailableSlotsResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := s.repo.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), WorkDayStartHour, 0, 0, 0, time.UTC)
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), WorkDayEndHour, 0, 0, 0, time.UTC)

	// Widen the query by one window on each side so visits just outside
	// the working day still block the edge slots.
	booked, err := s.repo.ListBookedSlots(ctx, doctorID, "CANCELLED", dayStart.Add(-conflictWindow), dayEnd.Add(conflictWindow))
	if err != nil {
		return nil, err
	}

	slots := []time.Time{}
	for slot := dayStart; slot.Before(dayEnd); slot = slot.Add(SlotLength) {
		if slotFree(slot, booked) {
			slots = append(slots, slot)
		}
	}

	return &AvailableSlotsResponse{
		Success:  true,
		DoctorID: doctorID,
		Date:     date,
		Slots:    slots,
	}, nil
}

func slotFree(slot time.Time, booked []BookedSlot) bool {
	for _, b := range booked {
		if b.Status != "SCHEDULED" {
			continue
		}
		diff := slot.Sub(b.VisitTime)
		if diff < 0 {
			diff = -diff
		}
		if diff <= conflictWindow {
			return false
		}
	}
	return true
}
