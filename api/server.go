/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. requestLog: Structured request logging (zerolog)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the booking frontend

ROUTE GROUPS:
  /api/appointments/*   Scheduling
  /api/checkout         Point of sale
  /api/sales/*          Sales ledger
  /api/expenses/*       Expense ledger
  /api/report/*         Monthly reporting

SECURITY NOTE:
  No authentication middleware. The server is meant to run on the salon's
  own network behind the receptionist's machine.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLog(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", h.CreateAppointment)
			r.Get("/", h.ListAppointments)
			r.Delete("/", h.CancelAppointments)
			r.Get("/reminders", h.ListReminders)
		})

		r.Post("/checkout", h.Checkout)

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Delete("/", h.DeleteSales)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", h.CreateExpense)
			r.Get("/", h.ListExpenses)
			r.Delete("/", h.DeleteExpenses)
		})

		r.Route("/report", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/professionals", h.GetProfessionalTotals)
		})
	})

	return r
}

// requestLog emits one structured line per request.
func requestLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
