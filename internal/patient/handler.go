package patient

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

type PatientSuccessResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Patient *PatientResponse `json:"patient,omitempty"`
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "patient:create"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to create patients")
		return
	}

	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	p, err := h.service.CreatePatient(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "creation_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(PatientSuccessResponse{
		Success: true,
		Message: "Patient created successfully",
		Patient: p,
	})
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "patient:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to list patients")
		return
	}

	params := pagination.ParseParams(r)

	response, err := h.service.ListPatients(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
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

	// Existence first, then authorization against the fetched record.
	p, err := h.service.GetPatient(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "patient:read", auth.Ownership{PatientEmail: p.Email}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view this patient")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PatientSuccessResponse{Success: true, Patient: p})
}

// GetMyRecord returns the patient record correlated with the acting
// identity's email.
func (h *Handler) GetMyRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	p, err := h.service.GetPatientByEmail(r.Context(), principal.Email)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PatientSuccessResponse{Success: true, Patient: p})
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
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

	existing, err := h.service.GetPatient(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "patient:update", auth.Ownership{PatientEmail: existing.Email}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to update this patient")
		return
	}

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	p, err := h.service.UpdatePatient(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, "update_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PatientSuccessResponse{
		Success: true,
		Message: "Patient updated successfully",
		Patient: p,
	})
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
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

	existing, err := h.service.GetPatient(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "patient:delete", auth.Ownership{PatientEmail: existing.Email}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to delete patients")
		return
	}

	if err := h.service.DeletePatient(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "deletion_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	log.Printf("patient handler: %v", err)
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicatePESEL):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ErrMissingFirst), errors.Is(err, ErrMissingLast),
		errors.Is(err, ErrMissingEmail), errors.Is(err, ErrInvalidBirthDay):
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
