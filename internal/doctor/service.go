package doctor

import (
	"context"
	"fmt"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func validateCreate(req CreateDoctorRequest) error {
	if req.FirstName == "" {
		return ErrMissingFirst
	}
	if req.LastName == "" {
		return ErrMissingLast
	}
	if req.Specialty == "" {
		return ErrMissingSpecialty
	}
	if req.Email == "" {
		return ErrMissingEmail
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	return s.repo.CreateDoctor(ctx, req)
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*DoctorResponse, error) {
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) GetDoctorByEmail(ctx context.Context, email string) (*DoctorResponse, error) {
	return s.repo.GetDoctorByEmail(ctx, email)
}

func (s *Service) ListDoctors(ctx context.Context, params pagination.Params) (*PaginatedDoctorListResponse, error) {
	params.Validate()

	doctors, totalCount, err := s.repo.ListDoctors(ctx, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	return &PaginatedDoctorListResponse{
		Success:    true,
		Doctors:    doctors,
		Pagination: params.CalculateMeta(totalCount),
	}, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id int64, req UpdateDoctorRequest) (*DoctorResponse, error) {
	return s.repo.UpdateDoctor(ctx, id, req)
}

func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	if _, err := s.repo.GetDoctor(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteDoctor(ctx, id)
}
