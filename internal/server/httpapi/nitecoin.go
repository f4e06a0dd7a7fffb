package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nitelabs/niteos/internal/server/models"
)

type transactionRequest struct {
	UserID  string `json:"userId" validate:"required"`
	VenueID string `json:"venueId,omitempty"`
	Amount  int64  `json:"amount" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=earn adjust"`
}

// handleCreateTransaction is the administrative earn/adjust path. Spend
// entries only come out of POST /api/pos/checkout.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	entry, err := s.nitecoin.Record(r.Context(), req.UserID, req.VenueID, req.Amount, models.EntryKind(req.Type))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	balance, err := s.nitecoin.GetBalance(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"balance": balance,
	})
}

func (s *Server) handleLedgerHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	entries, err := s.nitecoin.GetHistory(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponses(entries))
}
