package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mediclinic/clinic-service/internal/auth"
	"github.com/mediclinic/clinic-service/internal/pagination"
)

type mockService struct {
	createPatientFunc     func(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error)
	getPatientFunc        func(ctx context.Context, id int64) (*PatientResponse, error)
	getPatientByEmailFunc func(ctx context.Context, email string) (*PatientResponse, error)
	getPatientByPESELFunc func(ctx context.Context, pesel string) (*PatientResponse, error)
	listPatientsFunc      func(ctx context.Context, params pagination.Params) (*PaginatedPatientListResponse, error)
	updatePatientFunc     func(ctx context.Context, id int64, req UpdatePatientRequest) (*PatientResponse, error)
	deletePatientFunc     func(ctx context.Context, id int64) error
}

func (m *mockService) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
	return m.createPatientFunc(ctx, req)
}
func (m *mockService) GetPatient(ctx context.Context, id int64) (*PatientResponse, error) {
	return m.getPatientFunc(ctx, id)
}
func (m *mockService) GetPatientByEmail(ctx context.Context, email string) (*PatientResponse, error) {
	return m.getPatientByEmailFunc(ctx, email)
}
func (m *mockService) GetPatientByPESEL(ctx context.Context, pesel string) (*PatientResponse, error) {
	return m.getPatientByPESELFunc(ctx, pesel)
}
func (m *mockService) ListPatients(ctx context.Context, params pagination.Params) (*PaginatedPatientListResponse, error) {
	return m.listPatientsFunc(ctx, params)
}
func (m *mockService) UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*PatientResponse, error) {
	return m.updatePatientFunc(ctx, id, req)
}
func (m *mockService) DeletePatient(ctx context.Context, id int64) error {
	return m.deletePatientFunc(ctx, id)
}

func testGuard() *auth.Guard {
	return auth.NewGuard(auth.DefaultPermissions())
}

func requestAs(t *testing.T, principal *auth.Principal, method, target, body string) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
}

func withID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestHandlerGetPatient_OwnRecord(t *testing.T) {
	svc := &mockService{
		getPatientFunc: func(ctx context.Context, id int64) (*PatientResponse, error) {
			return &PatientResponse{ID: id, Email: "anna@example.com"}, nil
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := withID(requestAs(t, principal, http.MethodGet, "/patients/3", ""), "3")
	rr := httptest.NewRecorder()

	handler.GetPatient(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp PatientSuccessResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Patient == nil || resp.Patient.Email != "anna@example.com" {
		t.Errorf("Unexpected patient payload: %+v", resp.Patient)
	}
}

func TestHandlerGetPatient_ForeignRecordForbidden(t *testing.T) {
	svc := &mockService{
		getPatientFunc: func(ctx context.Context, id int64) (*PatientResponse, error) {
			return &PatientResponse{ID: id, Email: "someone.else@example.com"}, nil
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := withID(requestAs(t, principal, http.MethodGet, "/patients/3", ""), "3")
	rr := httptest.NewRecorder()

	handler.GetPatient(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestHandlerGetPatient_NotFoundBeforeAuthorization(t *testing.T) {
	svc := &mockService{
		getPatientFunc: func(ctx context.Context, id int64) (*PatientResponse, error) {
			return nil, ErrNotFound
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := withID(requestAs(t, principal, http.MethodGet, "/patients/99", ""), "99")
	rr := httptest.NewRecorder()

	handler.GetPatient(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing record, got %d", rr.Code)
	}
}

func TestHandlerCreatePatient_PatientRoleForbidden(t *testing.T) {
	handler := NewHandler(&mockService{}, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := requestAs(t, principal, http.MethodPost, "/patients", `{"first_name":"X"}`)
	rr := httptest.NewRecorder()

	handler.CreatePatient(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestHandlerCreatePatient_Receptionist(t *testing.T) {
	svc := &mockService{
		createPatientFunc: func(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
			return &PatientResponse{ID: 1, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}, nil
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 2, Email: "desk@example.com", Role: auth.RoleReceptionist}
	body := `{"first_name":"Jan","last_name":"Kowalski","email":"jan@example.com"}`
	req := requestAs(t, principal, http.MethodPost, "/patients", body)
	rr := httptest.NewRecorder()

	handler.CreatePatient(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandlerCreatePatient_Duplicate(t *testing.T) {
	svc := &mockService{
		createPatientFunc: func(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
			return nil, ErrDuplicateEmail
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 1, Email: "admin@example.com", Role: auth.RoleAdmin}
	body := `{"first_name":"Jan","last_name":"Kowalski","email":"taken@example.com"}`
	req := requestAs(t, principal, http.MethodPost, "/patients", body)
	rr := httptest.NewRecorder()

	handler.CreatePatient(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rr.Code)
	}
}

func TestHandlerDeletePatient_AdminOnly(t *testing.T) {
	deleted := false
	svc := &mockService{
		getPatientFunc: func(ctx context.Context, id int64) (*PatientResponse, error) {
			return &PatientResponse{ID: id, Email: "anna@example.com"}, nil
		},
		deletePatientFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	handler := NewHandler(svc, testGuard())

	// Even the record owner must not delete.
	owner := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := withID(requestAs(t, owner, http.MethodDelete, "/patients/3", ""), "3")
	rr := httptest.NewRecorder()
	handler.DeletePatient(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for owner delete, got %d", rr.Code)
	}
	if deleted {
		t.Fatal("Delete must not be called for a forbidden request")
	}

	admin := &auth.Principal{UserID: 1, Email: "admin@example.com", Role: auth.RoleAdmin}
	req = withID(requestAs(t, admin, http.MethodDelete, "/patients/3", ""), "3")
	rr = httptest.NewRecorder()
	handler.DeletePatient(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 for admin delete, got %d: %s", rr.Code, rr.Body.String())
	}
	if !deleted {
		t.Error("Expected delete to be called")
	}
}

func TestHandlerGetPatient_InvalidID(t *testing.T) {
	handler := NewHandler(&mockService{}, testGuard())

	principal := &auth.Principal{UserID: 1, Email: "admin@example.com", Role: auth.RoleAdmin}
	req := withID(requestAs(t, principal, http.MethodGet, "/patients/abc", ""), "abc")
	rr := httptest.NewRecorder()

	handler.GetPatient(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestHandlerGetPatient_Unauthenticated(t *testing.T) {
	handler := NewHandler(&mockService{}, testGuard())

	req := httptest.NewRequest(http.MethodGet, "/patients/3", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	rr := httptest.NewRecorder()

	handler.GetPatient(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}
}
