package patient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mediclinic/clinic-service/internal/messaging"
	"github.com/mediclinic/clinic-service/internal/pagination"
)

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func validateCreate(req CreatePatientRequest) error {
	if req.FirstName == "" {
		return ErrMissingFirst
	}
	if req.LastName == "" {
		return ErrMissingLast
	}
	if req.Email == "" {
		return ErrMissingEmail
	}
	if req.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", req.BirthDate); err != nil {
			return ErrInvalidBirthDay
		}
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.CreatePatient(ctx, req)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, messaging.EventPatientCreated, p)
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*PatientResponse, error) {
	return s.repo.GetPatient(ctx, id)
}

func (s *Service) GetPatientByEmail(ctx context.Context, email string) (*PatientResponse, error) {
	return s.repo.GetPatientByEmail(ctx, email)
}

func (s *Service) GetPatientByPESEL(ctx context.Context, pesel string) (*PatientResponse, error) {
	return s.repo.GetPatientByPESEL(ctx, pesel)
}

func (s *Service) ListPatients(ctx context.Context, params pagination.Params) (*PaginatedPatientListResponse, error) {
	params.Validate()

	patients, totalCount, err := s.repo.ListPatients(ctx, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	return &PaginatedPatientListResponse{
		Success:    true,
		Patients:   patients,
		Pagination: params.CalculateMeta(totalCount),
	}, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*PatientResponse, error) {
	if req.BirthDate != nil && *req.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", *req.BirthDate); err != nil {
			return nil, ErrInvalidBirthDay
		}
	}

	p, err := s.repo.UpdatePatient(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, messaging.EventPatientUpdated, p)
	return p, nil
}

// DeletePatient removes the patient and, via storage cascades, all
// visits and medical documents the patient owns.
func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	p, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePatient(ctx, id); err != nil {
		return err
	}

	s.publishEvent(ctx, messaging.EventPatientDeleted, p)
	return nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, p *PatientResponse) {
	if s.publisher == nil {
		return
	}
	event := messaging.PatientEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.PatientEventData{
			PatientID: p.ID,
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
