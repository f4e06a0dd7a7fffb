package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nitelabs/niteos/internal/server/analytics"
)

func (s *Server) handleCreateDemo(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.CreateDemo(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.events.Publish(r.Context(), analytics.Event{
		Type:   "user_onboarded",
		UserID: account.ID,
	})

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toAccountResponse(account))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}
