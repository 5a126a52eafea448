package visit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/mediclinic/clinic-service/internal/auth"
	"github.com/mediclinic/clinic-service/internal/pagination"
)

type mockService struct {
	scheduleFunc       func(ctx context.Context, req ScheduleVisitRequest) (*VisitResponse, error)
	updateFunc         func(ctx context.Context, id int64, req UpdateVisitRequest) (*VisitResponse, error)
	cancelFunc         func(ctx context.Context, id int64) (*VisitResponse, error)
	completeFunc       func(ctx context.Context, id int64) (*VisitResponse, error)
	deleteFunc         func(ctx context.Context, id int64) error
	getVisitFunc       func(ctx context.Context, id int64) (*VisitResponse, error)
	listVisitsFunc     func(ctx context.Context, params pagination.Params) (*PaginatedVisitListResponse, error)
	patientHistoryFunc func(ctx context.Context, patientID int64) (*VisitHistoryResponse, error)
	doctorHistoryFunc  func(ctx context.Context, doctorID int64) (*VisitHistoryResponse, error)
	patientEmailFunc   func(ctx context.Context, patientID int64) (string, error)
	doctorEmailFunc    func(ctx context.Context, doctorID int64) (string, error)
}

func (m *mockService) Schedule(ctx context.Context, req ScheduleVisitRequest) (*VisitResponse, error) {
	return m.scheduleFunc(ctx, req)
}
func (m *mockService) Update(ctx context.Context, id int64, req UpdateVisitRequest) (*VisitResponse, error) {
	return m.updateFunc(ctx, id, req)
}
func (m *mockService) Cancel(ctx context.Context, id int64) (*VisitResponse, error) {
	return m.cancelFunc(ctx, id)
}
func (m *mockService) Complete(ctx context.Context, id int64) (*VisitResponse, error) {
	return m.completeFunc(ctx, id)
}
func (m *mockService) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}
func (m *mockService) GetVisit(ctx context.Context, id int64) (*VisitResponse, error) {
	return m.getVisitFunc(ctx, id)
}
func (m *mockService) ListVisits(ctx context.Context, params pagination.Params) (*PaginatedVisitListResponse, error) {
	return m.listVisitsFunc(ctx, params)
}
func (m *mockService) PatientHistory(ctx context.Context, patientID int64) (*VisitHistoryResponse, error) {
	return m.patientHistoryFunc(ctx, patientID)
}
func (m *mockService) DoctorHistory(ctx context.Context, doctorID int64) (*VisitHistoryResponse, error) {
	return m.doctorHistoryFunc(ctx, doctorID)
}
func (m *mockService) PatientEmail(ctx context.Context, patientID int64) (string, error) {
	return m.patientEmailFunc(ctx, patientID)
}
func (m *mockService) DoctorEmail(ctx context.Context, doctorID int64) (string, error) {
	return m.doctorEmailFunc(ctx, doctorID)
}

func testGuard() *auth.Guard {
	return auth.NewGuard(auth.DefaultPermissions())
}

func requestAs(t *testing.T, principal *auth.Principal, method, target, body string) *http.Request {
	t.Helper()
	if body == "" {
		body = "{}"
	}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
}

func storedVisit(status string) *VisitResponse {
	return &VisitResponse{
		ID:        3,
		VisitTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		Status:    status,
		Doctor:    VisitPerson{ID: 10, Email: "dr@example.com"},
		Patient:   VisitPerson{ID: 20, Email: "anna@example.com"},
	}
}

func TestHandlerSchedule_PatientForSelf(t *testing.T) {
	svc := &mockService{
		patientEmailFunc: func(ctx context.Context, patientID int64) (string, error) {
			return "anna@example.com", nil
		},
		scheduleFunc: func(ctx context.Context, req ScheduleVisitRequest) (*VisitResponse, error) {
			return storedVisit(StatusScheduled), nil
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	body := `{"patient_id":20,"doctor_id":10,"visit_time":"2026-09-07T10:00:00Z"}`
	rr := httptest.NewRecorder()

	handler.ScheduleVisit(rr, requestAs(t, principal, http.MethodPost, "/visits", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandlerSchedule_PatientForOtherForbidden(t *testing.T) {
	scheduled := false
	svc := &mockService{
		patientEmailFunc: func(ctx context.Context, patientID int64) (string, error) {
			return "someone.else@example.com", nil
		},
		scheduleFunc: func(ctx context.Context, req ScheduleVisitRequest) (*VisitResponse, error) {
			scheduled = true
			return storedVisit(StatusScheduled), nil
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	body := `{"patient_id":21,"doctor_id":10,"visit_time":"2026-09-07T10:00:00Z"}`
	rr := httptest.NewRecorder()

	handler.ScheduleVisit(rr, requestAs(t, principal, http.MethodPost, "/visits", body))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d", rr.Code)
	}
	if scheduled {
		t.Error("Schedule must not run for a forbidden request")
	}
}

func TestHandlerSchedule_Conflict(t *testing.T) {
	svc := &mockService{
		patientEmailFunc: func(ctx context.Context, patientID int64) (string, error) {
			return "anna@example.com", nil
		},
		scheduleFunc: func(ctx context.Context, req ScheduleVisitRequest) (*VisitResponse, error) {
			return nil, ErrSlotConflict
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 2, Email: "desk@example.com", Role: auth.RoleReceptionist}
	body := `{"patient_id":20,"doctor_id":10,"visit_time":"2026-09-07T10:20:00Z"}`
	rr := httptest.NewRecorder()

	handler.ScheduleVisit(rr, requestAs(t, principal, http.MethodPost, "/visits", body))

	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rr.Code)
	}
}

func TestHandlerComplete_DoctorOwnVisit(t *testing.T) {
	svc := &mockService{
		getVisitFunc: func(ctx context.Context, id int64) (*VisitResponse, error) {
			return storedVisit(StatusScheduled), nil
		},
		completeFunc: func(ctx context.Context, id int64) (*VisitResponse, error) {
			return storedVisit(StatusCompleted), nil
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 3, Email: "DR@example.com", Role: auth.RoleDoctor}
	req := requestAs(t, principal, http.MethodPost, "/visits/3/complete", "")
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	rr := httptest.NewRecorder()

	handler.CompleteVisit(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 for own visit (case-insensitive email), got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandlerComplete_ForeignDoctorForbidden(t *testing.T) {
	svc := &mockService{
		getVisitFunc: func(ctx context.Context, id int64) (*VisitResponse, error) {
			return storedVisit(StatusScheduled), nil
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 4, Email: "other.dr@example.com", Role: auth.RoleDoctor}
	req := requestAs(t, principal, http.MethodPost, "/visits/3/complete", "")
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	rr := httptest.NewRecorder()

	handler.CompleteVisit(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestHandlerCancel_CompletedVisit(t *testing.T) {
	svc := &mockService{
		getVisitFunc: func(ctx context.Context, id int64) (*VisitResponse, error) {
			return storedVisit(StatusCompleted), nil
		},
		cancelFunc: func(ctx context.Context, id int64) (*VisitResponse, error) {
			return nil, ErrVisitCompleted
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := requestAs(t, principal, http.MethodPost, "/visits/3/cancel", "")
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	rr := httptest.NewRecorder()

	handler.CancelVisit(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rr.Code)
	}
}

func TestHandlerDelete_PatientForbidden(t *testing.T) {
	svc := &mockService{
		getVisitFunc: func(ctx context.Context, id int64) (*VisitResponse, error) {
			return storedVisit(StatusScheduled), nil
		},
	}
	handler := NewHandler(svc, testGuard())

	// Ownership must not unlock delete for non-admins.
	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := requestAs(t, principal, http.MethodDelete, "/visits/3", "")
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	rr := httptest.NewRecorder()

	handler.DeleteVisit(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestHandlerGetVisit_UnknownIs404ForEveryone(t *testing.T) {
	svc := &mockService{
		getVisitFunc: func(ctx context.Context, id int64) (*VisitResponse, error) {
			return nil, ErrNotFound
		},
	}
	handler := NewHandler(svc, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := requestAs(t, principal, http.MethodGet, "/visits/99", "")
	req = mux.SetURLVars(req, map[string]string{"id": "99"})
	rr := httptest.NewRecorder()

	handler.GetVisit(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

func TestHandlerListVisits_PatientForbidden(t *testing.T) {
	handler := NewHandler(&mockService{}, testGuard())

	principal := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	rr := httptest.NewRecorder()

	handler.ListVisits(rr, requestAs(t, principal, http.MethodGet, "/visits", ""))

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for own-scoped role on the full list, got %d", rr.Code)
	}
}

func TestHandlerPatientHistory_Ownership(t *testing.T) {
	svc := &mockService{
		patientEmailFunc: func(ctx context.Context, patientID int64) (string, error) {
			return "anna@example.com", nil
		},
		patientHistoryFunc: func(ctx context.Context, patientID int64) (*VisitHistoryResponse, error) {
			return &VisitHistoryResponse{Success: true}, nil
		},
	}
	handler := NewHandler(svc, testGuard())

	owner := &auth.Principal{UserID: 7, Email: "anna@example.com", Role: auth.RolePatient}
	req := requestAs(t, owner, http.MethodGet, "/patients/20/visits", "")
	req = mux.SetURLVars(req, map[string]string{"id": "20"})
	rr := httptest.NewRecorder()
	handler.PatientHistory(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 for own history, got %d", rr.Code)
	}

	stranger := &auth.Principal{UserID: 8, Email: "bob@example.com", Role: auth.RolePatient}
	req = requestAs(t, stranger, http.MethodGet, "/patients/20/visits", "")
	req = mux.SetURLVars(req, map[string]string{"id": "20"})
	rr = httptest.NewRecorder()
	handler.PatientHistory(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for foreign history, got %d", rr.Code)
	}
}
