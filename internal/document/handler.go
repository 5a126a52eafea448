package document

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

type DocumentSuccessResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Document *DocumentResponse `json:"document,omitempty"`
}

func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "document:create"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to create documents")
		return
	}

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	d, err := h.service.CreateDocument(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "creation_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(DocumentSuccessResponse{
		Success:  true,
		Message:  "Document created successfully",
		Document: d,
	})
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "document:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to list all documents")
		return
	}

	params := pagination.ParseParams(r)

	response, err := h.service.ListDocuments(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Document id must be numeric")
		return
	}

	d, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "document:read", auth.Ownership{PatientEmail: d.PatientEmail}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view this document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DocumentSuccessResponse{Success: true, Document: d})
}

// PatientDocuments serves GET /patients/{id}/documents.
func (h *Handler) PatientDocuments(w http.ResponseWriter, r *http.Request) {
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

	if err := h.guard.Authorize(principal, "document:read", auth.Ownership{PatientEmail: patientEmail}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view this patient's documents")
		return
	}

	response, err := h.service.PatientDocuments(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Document id must be numeric")
		return
	}

	existing, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "document:update", auth.Ownership{PatientEmail: existing.PatientEmail}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to update this document")
		return
	}

	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	d, err := h.service.UpdateDocument(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, "update_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DocumentSuccessResponse{
		Success:  true,
		Message:  "Document updated successfully",
		Document: d,
	})
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Document id must be numeric")
		return
	}

	existing, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	if err := h.guard.Authorize(principal, "document:delete", auth.Ownership{PatientEmail: existing.PatientEmail}); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to delete documents")
		return
	}

	if err := h.service.DeleteDocument(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "deletion_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	log.Printf("document handler: %v", err)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrVisitNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrVisitMismatch):
		respondError(w, http.StatusUnprocessableEntity, "invalid_reference", err.Error())
	case errors.Is(err, ErrMissingName), errors.Is(err, ErrMissingPatient):
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
