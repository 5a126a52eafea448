package visit

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mediclinic/clinic-service/internal/auth"
	"github.com/mediclinic/clinic-service/internal/pagination"
)

type Handler struct {
	service ServiceInterface
	guard   *auth.Guard
}

func NewHandler(service ServiceInterface, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type VisitSuccessResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Visit   *VisitResponse `json:"visit,omitempty"`
}

// ScheduleVisit books a visit. A PATIENT may only book for the patient
// record matching their own email, so ownership is resolved from the
// requested patient id before the slot is taken.
func (h *Handler) ScheduleVisit(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req ScheduleVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if req.PatientID == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", ErrMissingPatient.Error())
		return
	}

	patientEmail, err := h.service.PatientEmail(r.Context(), req.PatientID)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "visit:create", auth.Ownership{PatientEmail: patientEmail}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to schedule this visit")
		return
	}

	v, err := h.service.Schedule(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "scheduling_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(VisitSuccessResponse{
		Success: true,
		Message: "Visit scheduled successfully",
		Visit:   v,
	})
}

func (h *Handler) ListVisits(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "visit:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to list all visits")
		return
	}

	params := pagination.ParseParams(r)

	response, err := h.service.ListVisits(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetVisit(w http.ResponseWriter, r *http.Request) {
	v, ok := h.fetchAuthorized(w, r, "visit:read")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VisitSuccessResponse{Success: true, Visit: v})
}

func (h *Handler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	v, ok := h.fetchAuthorized(w, r, "visit:update")
	if !ok {
		return
	}

	var req UpdateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), v.ID, req)
	if err != nil {
		h.respondServiceError(w, err, "update_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VisitSuccessResponse{
		Success: true,
		Message: "Visit updated successfully",
		Visit:   updated,
	})
}

func (h *Handler) CancelVisit(w http.ResponseWriter, r *http.Request) {
	v, ok := h.fetchAuthorized(w, r, "visit:cancel")
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(r.Context(), v.ID)
	if err != nil {
		h.respondServiceError(w, err, "cancellation_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VisitSuccessResponse{
		Success: true,
		Message: "Visit cancelled successfully",
		Visit:   cancelled,
	})
}

func (h *Handler) CompleteVisit(w http.ResponseWriter, r *http.Request) {
	v, ok := h.fetchAuthorized(w, r, "visit:complete")
	if !ok {
		return
	}

	completed, err := h.service.Complete(r.Context(), v.ID)
	if err != nil {
		h.respondServiceError(w, err, "completion_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VisitSuccessResponse{
		Success: true,
		Message: "Visit completed successfully",
		Visit:   completed,
	})
}

func (h *Handler) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	v, ok := h.fetchAuthorized(w, r, "visit:delete")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), v.ID); err != nil {
		h.respondServiceError(w, err, "deletion_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PatientHistory serves GET /patients/{id}/visits.
func (h *Handler) PatientHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Patient id must be numeric")
		return
	}

	patientEmail, err := h.service.PatientEmail(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "visit:read", auth.Ownership{PatientEmail: patientEmail}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view this patient's visits")
		return
	}

	response, err := h.service.PatientHistory(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DoctorHistory serves GET /doctors/{id}/visits.
func (h *Handler) DoctorHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Doctor id must be numeric")
		return
	}

	doctorEmail, err := h.service.DoctorEmail(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "visit:read", auth.Ownership{DoctorEmail: doctorEmail}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view this doctor's visits")
		return
	}

	response, err := h.service.DoctorHistory(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// fetchAuthorized loads the visit from the path id and runs the
// ownership-scoped permission check against the fetched record.
// Existence is checked first, so an unknown id is 404 for everyone.
func (h *Handler) fetchAuthorized(w http.ResponseWriter, r *http.Request, action string) (*VisitResponse, bool) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return nil, false
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Visit id must be numeric")
		return nil, false
	}

	v, err := h.service.GetVisit(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return nil, false
	}

	owners := auth.Ownership{PatientEmail: v.Patient.Email, DoctorEmail: v.Doctor.Email}
	if err := h.guard.Authorize(principal, action, owners); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to access this visit")
		return nil, false
	}

	return v, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	log.Printf("visit handler: %v", err)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrDoctorNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrSlotConflict):
		respondError(w, http.StatusConflict, "slot_conflict", err.Error())
	case errors.Is(err, ErrVisitCompleted), errors.Is(err, ErrVisitCancelled):
		respondError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, ErrMissingPatient), errors.Is(err, ErrMissingDoctor), errors.Is(err, ErrMissingTime):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}
