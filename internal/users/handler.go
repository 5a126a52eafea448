package users

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mediclinic/clinic-service/internal/auth"
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

type UserSuccessResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user,omitempty"`
}

// Register is unauthenticated: it self-registers a PATIENT account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "registration_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// Login is unauthenticated: it exchanges credentials for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "login_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "user:create"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to create users")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	u, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "creation_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UserSuccessResponse{
		Success: true,
		Message: "User created successfully",
		User:    u,
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "user:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to list users")
		return
	}

	resp, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "user:read"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to view users")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "User id must be numeric")
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UserSuccessResponse{Success: true, User: u})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	if err := h.guard.AuthorizeAny(principal, "user:delete"); err != nil {
		respondError(w, http.StatusForbidden, "forbidden", "Not allowed to delete users")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "User id must be numeric")
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "deletion_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	log.Printf("users handler: %v", err)
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicatePESEL):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, ErrMissingEmail), errors.Is(err, ErrMissingPassword),
		errors.Is(err, ErrWeakPassword), errors.Is(err, ErrMissingFirst),
		errors.Is(err, ErrMissingLast), errors.Is(err, ErrInvalidRole):
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
