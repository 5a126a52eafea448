package document

import (
	"context"
	"fmt"
	"log"

	"github.com/mediclinic/clinic-service/internal/messaging"
	"github.com/mediclinic/clinic-service/internal/pagination"
	"github.com/mediclinic/clinic-service/internal/telemetry"
)

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: metrics}
}

// CreateDocument stores a medical document. A referenced visit must
// belong to the document's patient.
func (s *Service) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if req.PatientID == 0 {
		return nil, ErrMissingPatient
	}

	if _, err := s.repo.GetPatientEmail(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if req.VisitID != nil {
		if err := s.checkVisitOwner(ctx, *req.VisitID, req.PatientID); err != nil {
			return nil, err
		}
	}

	d, err := s.repo.CreateDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	s.recordOperation(ctx, "create")
	s.publishEvent(ctx, messaging.EventDocumentCreated, d)
	return d, nil
}

func (s *Service) GetDocument(ctx context.Context, id int64) (*DocumentResponse, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) ListDocuments(ctx context.Context, params pagination.Params) (*PaginatedDocumentListResponse, error) {
	params.Validate()

	docs, totalCount, err := s.repo.ListDocuments(ctx, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return &PaginatedDocumentListResponse{
		Success:    true,
		Documents:  docs,
		Pagination: params.CalculateMeta(totalCount),
	}, nil
}

// PatientDocuments returns all documents of one patient.
func (s *Service) PatientDocuments(ctx context.Context, patientID int64) (*DocumentListResponse, error) {
	if _, err := s.repo.GetPatientEmail(ctx, patientID); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &DocumentListResponse{Success: true, Documents: docs}, nil
}

func (s *Service) UpdateDocument(ctx context.Context, id int64, req UpdateDocumentRequest) (*DocumentResponse, error) {
	current, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.VisitID != nil {
		if err := s.checkVisitOwner(ctx, *req.VisitID, current.PatientID); err != nil {
			return nil, err
		}
	}

	d, err := s.repo.UpdateDocument(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.recordOperation(ctx, "update")
	return d, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}

	s.recordOperation(ctx, "delete")
	s.publishEvent(ctx, messaging.EventDocumentDeleted, d)
	return nil
}

func (s *Service) PatientEmail(ctx context.Context, patientID int64) (string, error) {
	return s.repo.GetPatientEmail(ctx, patientID)
}

func (s *Service) checkVisitOwner(ctx context.Context, visitID, patientID int64) error {
	owner, err := s.repo.GetVisitPatient(ctx, visitID)
	if err != nil {
		return err
	}
	if owner != patientID {
		return ErrVisitMismatch
	}
	return nil
}

func (s *Service) recordOperation(ctx context.Context, operation string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordDocumentOperation(ctx, operation)
}

func (s *Service) publishEvent(ctx context.Context, eventType string, d *DocumentResponse) {
	if s.publisher == nil {
		return
	}
	event := messaging.DocumentEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.DocumentEventData{
			DocumentID: d.ID,
			PatientID:  d.PatientID,
			VisitID:    d.VisitID,
			Name:       d.Name,
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
