package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nitelabs/niteos/internal/server/analytics"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type checkoutRequest struct {
	VenueID string          `json:"venueId" validate:"required"`
	UserID  string          `json:"userId" validate:"required"`
	Amount  int64           `json:"amount" validate:"required,gt=0"`
	Items   json.RawMessage `json:"items,omitempty"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := s.decode(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	receipt, err := s.checkout.ProcessCheckout(r.Context(), req.VenueID, req.UserID, req.Amount, req.Items)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.events.Publish(r.Context(), analytics.Event{
		Type:    "checkout",
		UserID:  req.UserID,
		VenueID: req.VenueID,
		Payload: bson.M{"amount": req.Amount, "receiptId": receipt.ID},
	})

	writeJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

func (s *Server) handleVenueHistory(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	receipts, err := s.checkout.GetVenueHistory(r.Context(), venueID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]receiptResponse, 0, len(receipts))
	for _, receipt := range receipts {
		out = append(out, toReceiptResponse(receipt))
	}
	writeJSON(w, http.StatusOK, out)
}
