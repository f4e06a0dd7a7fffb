package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type venueRequest struct {
	Slug  string `json:"slug" validate:"required"`
	Title string `json:"title" validate:"required"`
	City  string `json:"city,omitempty"`
}

func (s *Server) handleCreateVenue(w http.ResponseWriter, r *http.Request) {
	var req venueRequest
	if err := s.decode(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	venue, err := s.catalog.CreateVenue(r.Context(), req.Slug, req.Title, req.City)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVenueResponse(venue))
}

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := s.catalog.ListVenues(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]venueResponse, 0, len(venues))
	for _, venue := range venues {
		out = append(out, toVenueResponse(venue))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := s.catalog.GetVenueBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVenueResponse(venue))
}

type marketItemRequest struct {
	Title     string `json:"title" validate:"required"`
	PriceNite int64  `json:"priceNite" validate:"required,gt=0"`
	VenueID   string `json:"venueId,omitempty"`
}

func (s *Server) handleCreateMarketItem(w http.ResponseWriter, r *http.Request) {
	var req marketItemRequest
	if err := s.decode(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	item, err := s.catalog.CreateMarketItem(r.Context(), req.Title, req.PriceNite, req.VenueID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMarketItemResponse(item))
}

func (s *Server) handleListMarket(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListMarketItems(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]marketItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toMarketItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

type feedItemRequest struct {
	Type    string `json:"type" validate:"required,oneof=news event"`
	Title   string `json:"title" validate:"required"`
	Body    string `json:"body" validate:"required"`
	VenueID string `json:"venueId,omitempty"`
}

func (s *Server) handleCreateFeedItem(w http.ResponseWriter, r *http.Request) {
	var req feedItemRequest
	if err := s.decode(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	item, err := s.catalog.CreateFeedItem(r.Context(), req.Type, req.Title, req.Body, req.VenueID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFeedItemResponse(item))
}

func (s *Server) handleListFeed(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListFeed(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]feedItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toFeedItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}
