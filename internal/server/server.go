package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/healthdesk/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db          *storage.DB
	log         *slog.Logger
	apiKey      string
	doctorToken string
	router      chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey, doctorToken string, log *slog.Logger) *Server {
	s := &Server{
		db:          db,
		log:         log,
		apiKey:      apiKey,
		doctorToken: doctorToken,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealthz)

	// Patient-facing API (API key required; the dashboard frontend holds it)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/onboarding", s.handleOnboarding)

		r.Route("/profile/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Patch("/record", s.handlePatchRecord)
			r.Get("/insights", s.handleGetInsights)
			r.Put("/summary", s.handleSetHealthSummary)

			r.Post("/records", s.handleCreateRecord)
			r.Get("/records", s.handleListRecords)

			r.Post("/chat", s.handleCreateChatSession)
			r.Get("/chat", s.handleListChatSessions)

			r.Post("/appointments", s.handleCreateAppointment)
			r.Get("/appointments", s.handleListAppointments)
		})

		r.Delete("/records/{recordID}", s.handleDeleteRecord)

		r.Route("/chat/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetChatSession)
			r.Delete("/", s.handleDeleteChatSession)
			r.Post("/messages", s.handlePostChatMessage)
		})

		r.Get("/appointments/{apptID}", s.handleGetAppointment)
		r.Post("/appointments/{apptID}/cancel", s.handleCancelAppointment)

		// Doctor portal (additionally requires the doctor token)
		r.Route("/doctor", func(r chi.Router) {
			r.Use(DoctorAuth(s.doctorToken))
			r.Get("/patients", s.handleDoctorPatients)
			r.Get("/patients/{id}", s.handleDoctorPatientDetail)
			r.Put("/patients/{id}", s.handleDoctorUpdatePatient)
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
