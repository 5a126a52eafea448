package doctor

import (
	"context"
	"errors"
	"testing"
)

func TestCreateDoctor_Success(t *testing.T) {
	mockRepo := &mockRepository{
		createDoctorFunc: func(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error) {
			return &DoctorResponse{ID: 1, FirstName: req.FirstName, Specialty: req.Specialty, Email: req.Email}, nil
		},
	}
	service := NewService(mockRepo)

	d, err := service.CreateDoctor(context.Background(), CreateDoctorRequest{
		FirstName: "Maria",
		LastName:  "Nowak",
		Specialty: "Cardiology",
		Email:     "maria.nowak@example.com",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if d.ID != 1 || d.Specialty != "Cardiology" {
		t.Errorf("Unexpected doctor: %+v", d)
	}
}

func TestCreateDoctor_ValidationError(t *testing.T) {
	service := NewService(&mockRepository{})

	testCases := []struct {
		name    string
		req     CreateDoctorRequest
		wantErr error
	}{
		{
			name:    "Missing specialty",
			req:     CreateDoctorRequest{FirstName: "Maria", LastName: "Nowak", Email: "m@x.com"},
			wantErr: ErrMissingSpecialty,
		},
		{
			name:    "Missing email",
			req:     CreateDoctorRequest{FirstName: "Maria", LastName: "Nowak", Specialty: "Cardiology"},
			wantErr: ErrMissingEmail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateDoctor(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateDoctor_DuplicateEmail(t *testing.T) {
	mockRepo := &mockRepository{
		createDoctorFunc: func(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error) {
			return nil, ErrDuplicateEmail
		},
	}
	service := NewService(mockRepo)

	_, err := service.CreateDoctor(context.Background(), CreateDoctorRequest{
		FirstName: "Maria", LastName: "Nowak", Specialty: "Cardiology", Email: "taken@example.com",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}
}

func TestDeleteDoctor_NotFound(t *testing.T) {
	mockRepo := &mockRepository{
		getDoctorFunc: func(ctx context.Context, id int64) (*DoctorResponse, error) {
			return nil, ErrNotFound
		},
	}
	service := NewService(mockRepo)

	if err := service.DeleteDoctor(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
