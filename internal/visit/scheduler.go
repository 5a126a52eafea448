package visit

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mediclinic/clinic-service/internal/messaging"
	"github.com/mediclinic/clinic-service/internal/pagination"
	"github.com/mediclinic/clinic-service/internal/telemetry"
)

// Service is the visit scheduler. It owns the slot-conflict rule and
// the status lifecycle; persistence-level locking lives in Repository.
type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
	cfg       Config
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics *telemetry.Metrics, cfg Config) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: metrics, cfg: cfg}
}

// Schedule books a SCHEDULED visit for the patient with the doctor at
// startTime, failing with ErrSlotConflict when the doctor already has
// a scheduled visit within the conflict window.
func (s *Service) Schedule(ctx context.Context, req ScheduleVisitRequest) (*VisitResponse, error) {
	if req.PatientID == 0 {
		return nil, ErrMissingPatient
	}
	if req.DoctorID == 0 {
		return nil, ErrMissingDoctor
	}
	if req.VisitTime.IsZero() {
		return nil, ErrMissingTime
	}

	v, err := s.repo.ScheduleVisit(ctx, req.PatientID, req.DoctorID, req.VisitTime)
	if err != nil {
		s.recordOutcome(ctx, "schedule", err)
		return nil, err
	}

	s.recordOutcome(ctx, "schedule", nil)
	s.publishEvent(ctx, messaging.EventVisitScheduled, v)
	return v, nil
}

// Update rewrites the visit's patient, doctor or time. Unresolved new
// references are silently kept as-is unless strict references are
// configured. A doctor or time change re-runs the conflict check,
// excluding the visit itself.
func (s *Service) Update(ctx context.Context, id int64, req UpdateVisitRequest) (*VisitResponse, error) {
	current, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	patientID := current.Patient.ID
	doctorID := current.Doctor.ID
	visitTime := current.VisitTime

	if req.PatientID != nil && *req.PatientID != patientID {
		if _, err := s.repo.GetPatientEmail(ctx, *req.PatientID); err != nil {
			if s.cfg.StrictReferences {
				return nil, err
			}
			log.Printf("Ignoring unresolved patient reference %d on visit %d", *req.PatientID, id)
		} else {
			patientID = *req.PatientID
		}
	}
	if req.DoctorID != nil && *req.DoctorID != doctorID {
		if _, err := s.repo.GetDoctorEmail(ctx, *req.DoctorID); err != nil {
			if s.cfg.StrictReferences {
				return nil, err
			}
			log.Printf("Ignoring unresolved doctor reference %d on visit %d", *req.DoctorID, id)
		} else {
			doctorID = *req.DoctorID
		}
	}
	if req.VisitTime != nil && !req.VisitTime.IsZero() {
		visitTime = *req.VisitTime
	}

	checkConflict := doctorID != current.Doctor.ID || !visitTime.Equal(current.VisitTime)

	v, err := s.repo.UpdateVisit(ctx, id, patientID, doctorID, visitTime, checkConflict)
	if err != nil {
		s.recordOutcome(ctx, "update", err)
		return nil, err
	}

	s.recordOutcome(ctx, "update", nil)
	s.publishEvent(ctx, messaging.EventVisitUpdated, v)
	return v, nil
}

// Cancel marks the visit CANCELLED. A completed visit cannot be
// cancelled; cancelling an already cancelled visit is a no-op success.
func (s *Service) Cancel(ctx context.Context, id int64) (*VisitResponse, error) {
	current, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCompleted {
		s.recordOutcome(ctx, "cancel", ErrVisitCompleted)
		return nil, ErrVisitCompleted
	}
	if current.Status == StatusCancelled {
		return current, nil
	}

	v, err := s.repo.SetStatus(ctx, id, StatusCancelled)
	if err != nil {
		s.recordOutcome(ctx, "cancel", err)
		return nil, err
	}

	s.recordOutcome(ctx, "cancel", nil)
	s.publishEvent(ctx, messaging.EventVisitCancelled, v)
	return v, nil
}

// Complete marks the visit COMPLETED. Only SCHEDULED visits can be
// completed.
func (s *Service) Complete(ctx context.Context, id int64) (*VisitResponse, error) {
	current, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCompleted {
		s.recordOutcome(ctx, "complete", ErrVisitCompleted)
		return nil, ErrVisitCompleted
	}
	if current.Status == StatusCancelled {
		s.recordOutcome(ctx, "complete", ErrVisitCancelled)
		return nil, ErrVisitCancelled
	}

	v, err := s.repo.SetStatus(ctx, id, StatusCompleted)
	if err != nil {
		s.recordOutcome(ctx, "complete", err)
		return nil, err
	}

	s.recordOutcome(ctx, "complete", nil)
	s.publishEvent(ctx, messaging.EventVisitCompleted, v)
	return v, nil
}

// Delete removes the visit regardless of status.
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteVisit(ctx, id); err != nil {
		s.recordOutcome(ctx, "delete", err)
		return err
	}

	s.recordOutcome(ctx, "delete", nil)
	s.publishEvent(ctx, messaging.EventVisitDeleted, current)
	return nil
}

func (s *Service) GetVisit(ctx context.Context, id int64) (*VisitResponse, error) {
	return s.repo.GetVisit(ctx, id)
}

func (s *Service) ListVisits(ctx context.Context, params pagination.Params) (*PaginatedVisitListResponse, error) {
	params.Validate()

	visits, totalCount, err := s.repo.ListVisits(ctx, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	return &PaginatedVisitListResponse{
		Success:    true,
		Visits:     visits,
		Pagination: params.CalculateMeta(totalCount),
	}, nil
}

// PatientHistory returns the patient's visits in time order.
func (s *Service) PatientHistory(ctx context.Context, patientID int64) (*VisitHistoryResponse, error) {
	if _, err := s.repo.GetPatientEmail(ctx, patientID); err != nil {
		return nil, err
	}
	visits, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &VisitHistoryResponse{Success: true, Visits: visits}, nil
}

// DoctorHistory returns the doctor's visits in time order.
func (s *Service) DoctorHistory(ctx context.Context, doctorID int64) (*VisitHistoryResponse, error) {
	if _, err := s.repo.GetDoctorEmail(ctx, doctorID); err != nil {
		return nil, err
	}
	visits, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return &VisitHistoryResponse{Success: true, Visits: visits}, nil
}

func (s *Service) PatientEmail(ctx context.Context, patientID int64) (string, error) {
	return s.repo.GetPatientEmail(ctx, patientID)
}

func (s *Service) DoctorEmail(ctx context.Context, doctorID int64) (string, error) {
	return s.repo.GetDoctorEmail(ctx, doctorID)
}

func (s *Service) recordOutcome(ctx context.Context, operation string, err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.RecordVisitOperation(ctx, operation, "success")
	case errors.Is(err, ErrSlotConflict):
		s.metrics.RecordVisitOperation(ctx, operation, "conflict")
		s.metrics.RecordSchedulingConflict(ctx, operation)
	default:
		s.metrics.RecordVisitOperation(ctx, operation, "error")
	}
}

func (s *Service) publishEvent(ctx context.Context, eventType string, v *VisitResponse) {
	if s.publisher == nil {
		return
	}
	event := messaging.VisitEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.VisitEventData{
			VisitID:   v.ID,
			DoctorID:  v.Doctor.ID,
			PatientID: v.Patient.ID,
			VisitTime: v.VisitTime,
			Status:    v.Status,
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
