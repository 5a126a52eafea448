package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mediclinic/clinic-service/internal/auth"
	"github.com/mediclinic/clinic-service/internal/doctor"
	"github.com/mediclinic/clinic-service/internal/document"
	"github.com/mediclinic/clinic-service/internal/messaging"
	"github.com/mediclinic/clinic-service/internal/patient"
	"github.com/mediclinic/clinic-service/internal/telemetry"
	"github.com/mediclinic/clinic-service/internal/users"
	"github.com/mediclinic/clinic-service/internal/visit"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// SetupRouter initializes all routes for the application. Route-level
// middleware performs the coarse grant check; ownership-scoped
// decisions happen inside the handlers against fetched records.
func SetupRouter(db *sql.DB, tokens *auth.TokenProvider, perms auth.Permissions, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *mux.Router {
	guard := auth.NewGuard(perms)

	patientRepo := patient.NewRepository(db)
	patientService := patient.NewService(patientRepo, publisher)
	patientHandler := patient.NewHandler(patientService, guard)

	doctorRepo := doctor.NewRepository(db)
	doctorService := doctor.NewService(doctorRepo)
	doctorHandler := doctor.NewHandler(doctorService, guard)

	visitRepo := visit.NewRepository(db)
	visitService := visit.NewService(visitRepo, publisher, metrics, visit.LoadConfig())
	visitHandler := visit.NewHandler(visitService, guard)

	documentRepo := document.NewRepository(db)
	documentService := document.NewService(documentRepo, publisher, metrics)
	documentHandler := document.NewHandler(documentService, guard)

	userRepo := users.NewRepository(db)
	userService := users.NewService(userRepo, tokens, publisher)
	userHandler := users.NewHandler(userService, guard)

	secure := func(action string, h http.HandlerFunc) http.Handler {
		if metrics != nil {
			return auth.MiddlewareWithMetrics(tokens, metrics)(
				auth.RequireActionWithMetrics(action, perms, metrics)(h),
			)
		}
		return auth.Middleware(tokens)(auth.RequireAction(action, perms)(h))
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("clinic-service"))

	// Public endpoints
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"clinic-service"}`))
	}).Methods("GET")

	r.HandleFunc("/auth/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", userHandler.Login).Methods("POST")

	// Patient routes
	r.Handle("/patients", secure("patient:create", patientHandler.CreatePatient)).Methods("POST")
	r.Handle("/patients", secure("patient:read", patientHandler.ListPatients)).Methods("GET")
	r.Handle("/patients/me", secure("patient:read", patientHandler.GetMyRecord)).Methods("GET")
	r.Handle("/patients/{id}", secure("patient:read", patientHandler.GetPatient)).Methods("GET")
	r.Handle("/patients/{id}", secure("patient:update", patientHandler.UpdatePatient)).Methods("PUT")
	r.Handle("/patients/{id}", secure("patient:delete", patientHandler.DeletePatient)).Methods("DELETE")
	r.Handle("/patients/{id}/visits", secure("visit:read", visitHandler.PatientHistory)).Methods("GET")
	r.Handle("/patients/{id}/documents", secure("document:read", documentHandler.PatientDocuments)).Methods("GET")

	// Doctor routes
	r.Handle("/doctors", secure("doctor:create", doctorHandler.CreateDoctor)).Methods("POST")
	r.Handle("/doctors", secure("doctor:read", doctorHandler.ListDoctors)).Methods("GET")
	r.Handle("/doctors/{id}", secure("doctor:read", doctorHandler.GetDoctor)).Methods("GET")
	r.Handle("/doctors/{id}", secure("doctor:update", doctorHandler.UpdateDoctor)).Methods("PUT")
	r.Handle("/doctors/{id}", secure("doctor:delete", doctorHandler.DeleteDoctor)).Methods("DELETE")
	r.Handle("/doctors/{id}/available-slots", secure("doctor:read", doctorHandler.AvailableSlots)).Methods("GET")
	r.Handle("/doctors/{id}/visits", secure("visit:read", visitHandler.DoctorHistory)).Methods("GET")

	// Visit routes
	r.Handle("/visits", secure("visit:create", visitHandler.ScheduleVisit)).Methods("POST")
	r.Handle("/visits", secure("visit:read", visitHandler.ListVisits)).Methods("GET")
	r.Handle("/visits/{id}", secure("visit:read", visitHandler.GetVisit)).Methods("GET")
	r.Handle("/visits/{id}", secure("visit:update", visitHandler.UpdateVisit)).Methods("PUT")
	r.Handle("/visits/{id}", secure("visit:delete", visitHandler.DeleteVisit)).Methods("DELETE")
	r.Handle("/visits/{id}/cancel", secure("visit:cancel", visitHandler.CancelVisit)).Methods("POST")
	r.Handle("/visits/{id}/complete", secure("visit:complete", visitHandler.CompleteVisit)).Methods("POST")

	// Medical document routes
	r.Handle("/documents", secure("document:create", documentHandler.CreateDocument)).Methods("POST")
	r.Handle("/documents", secure("document:read", documentHandler.ListDocuments)).Methods("GET")
	r.Handle("/documents/{id}", secure("document:read", documentHandler.GetDocument)).Methods("GET")
	r.Handle("/documents/{id}", secure("document:update", documentHandler.UpdateDocument)).Methods("PUT")
	r.Handle("/documents/{id}", secure("document:delete", documentHandler.DeleteDocument)).Methods("DELETE")

	// User management routes (ADMIN only)
	r.Handle("/users", secure("user:create", userHandler.CreateUser)).Methods("POST")
	r.Handle("/users", secure("user:read", userHandler.ListUsers)).Methods("GET")
	r.Handle("/users/{id}", secure("user:read", userHandler.GetUser)).Methods("GET")
	r.Handle("/users/{id}", secure("user:delete", userHandler.DeleteUser)).Methods("DELETE")

	return r
}
