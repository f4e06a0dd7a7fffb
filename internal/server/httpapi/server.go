// Package httpapi exposes the Nite OS REST API: the point-of-sale checkout
// and Nitecoin ledger endpoints plus the thin venue, market, feed, user,
// auth and analytics surfaces. All application routes live under /api.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nitelabs/niteos/internal/logging"
	"github.com/nitelabs/niteos/internal/server/analytics"
	"github.com/nitelabs/niteos/internal/server/config"
	"github.com/nitelabs/niteos/internal/server/services"
	"github.com/nitelabs/niteos/internal/shared"
)

// Server is the Nite OS HTTP API server.
type Server struct {
	cfg      *config.Config
	checkout *services.CheckoutService
	nitecoin *services.NitecoinService
	accounts *services.AccountService
	catalog  *services.CatalogService
	events   *analytics.Sink
	registry *prometheus.Registry
	validate *validator.Validate
	logger   logging.Logger
}

func NewServer(
	cfg *config.Config,
	checkout *services.CheckoutService,
	nitecoin *services.NitecoinService,
	accounts *services.AccountService,
	catalog *services.CatalogService,
	events *analytics.Sink,
	registry *prometheus.Registry,
	logger logging.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		checkout: checkout,
		nitecoin: nitecoin,
		accounts: accounts,
		catalog:  catalog,
		events:   events,
		registry: registry,
		validate: validator.New(),
		logger:   logger.With("module", "httpapi"),
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/pos", func(r chi.Router) {
			r.Get("/", servicePing("pos"))
			r.Post("/checkout", s.handleCheckout)
			r.Get("/venues/{venueID}/history", s.handleVenueHistory)
		})

		r.Route("/nitecoin", func(r chi.Router) {
			r.Get("/", servicePing("nitecoin"))
			r.Post("/transactions", s.handleCreateTransaction)
			r.Get("/users/{userID}/balance", s.handleBalance)
			r.Get("/users/{userID}/history", s.handleLedgerHistory)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/demo", s.handleCreateDemo)
			r.Get("/{userID}", s.handleGetUser)
		})

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", s.handleListVenues)
			r.Post("/", s.handleCreateVenue)
			r.Get("/{slug}", s.handleGetVenue)
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/", s.handleListMarket)
			r.Post("/", s.handleCreateMarketItem)
		})

		r.Route("/feed", func(r chi.Router) {
			r.Get("/", s.handleListFeed)
			r.Post("/", s.handleCreateFeedItem)
		})

		r.Post("/auth/login", s.handleLogin)

		// Mounted only when a Mongo sink is configured.
		if s.events != nil {
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/events", s.handleRecentEvents)
				r.Post("/events", s.handlePublishEvent)
			})
		}
	})

	return r
}

func servicePing(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": name,
			"status":  "online",
		})
	}
}

// decode unmarshals the request body into v and runs struct validation.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return shared.ErrorValidation
	}
	if err := s.validate.Struct(v); err != nil {
		return shared.ErrorValidation
	}
	return nil
}

// writeDomainError maps the error taxonomy to HTTP statuses. Anything
// outside the taxonomy is a 500 and gets logged with the request id.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrorInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, shared.ErrorInsufficientFunds.Error())
	case errors.Is(err, shared.ErrorAccountNotFound), errors.Is(err, shared.ErrorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrorLockTimeout):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, shared.ErrorLockTimeout.Error())
	case errors.Is(err, shared.ErrorInvalidToken):
		writeError(w, http.StatusUnauthorized, shared.ErrorInvalidToken.Error())
	default:
		s.logger.Error(r.Context(), "request failed",
			"path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
		},
	})
}
