package doctor

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

type DoctorSuccessResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Doctor  *DoctorResponse `json:"doctor,omitempty"`
}

func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "doctor:create"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to create doctors")
		return
	}

	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	d, err := h.service.CreateDoctor(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "creation_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(DoctorSuccessResponse{
		Success: true,
		Message: "Doctor created successfully",
		Doctor:  d,
	})
}

func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "doctor:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to list doctors")
		return
	}

	params := pagination.ParseParams(r)

	response, err := h.service.ListDoctors(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "doctor:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view doctors")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Doctor id must be numeric")
		return
	}

	d, err := h.service.GetDoctor(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DoctorSuccessResponse{Success: true, Doctor: d})
}

// AvailableSlots returns the doctor's free appointment slots for the
// day given by the required "date" query parameter.
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "doctor:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view doctor availability")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Doctor id must be numeric")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		respondError(w, http.StatusBadRequest, "missing_date", "Query parameter 'date' is required (YYYY-MM-DD)")
		return
	}

	response, err := h.service.AvailableSlots(r.Context(), id, date)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "doctor:update"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to update doctors")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Doctor id must be numeric")
		return
	}

	var req UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	d, err := h.service.UpdateDoctor(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, "update_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DoctorSuccessResponse{
		Success: true,
		Message: "Doctor updated successfully",
		Doctor:  d,
	})
}

func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "doctor:delete"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to delete doctors")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Doctor id must be numeric")
		return
	}

	if err := h.service.DeleteDoctor(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "deletion_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	log.Printf("doctor handler: %v", err)
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ErrMissingFirst), errors.Is(err, ErrMissingLast),
		errors.Is(err, ErrMissingEmail), errors.Is(err, ErrMissingSpecialty),
		errors.Is(err, ErrInvalidDate):
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
