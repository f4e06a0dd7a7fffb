package httpapi

import (
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nitelabs/niteos/internal/server/analytics"
)

const recentEventsLimit = 50

type eventRequest struct {
	Type    string `json:"type" validate:"required"`
	UserID  string `json:"userId,omitempty"`
	VenueID string `json:"venueId,omitempty"`
	Payload bson.M `json:"payload,omitempty"`
}

func (s *Server) handlePublishEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := s.decode(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.events.Publish(r.Context(), analytics.Event{
		Type:    req.Type,
		UserID:  req.UserID,
		VenueID: req.VenueID,
		Payload: req.Payload,
	})

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.Recent(r.Context(), recentEventsLimit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}
