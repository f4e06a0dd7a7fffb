package httpapi

import (
	"encoding/json"
	"time"

	"github.com/nitelabs/niteos/internal/server/models"
)

// Response shapes use the camelCase field names the frontend consumes.

type accountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	NiteBalance int64     `json:"niteBalance"`
	XP          int64     `json:"xp"`
	Level       int64     `json:"level"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Email:       a.Email,
		NiteBalance: a.NiteBalance,
		XP:          a.XP,
		Level:       a.Level,
		CreatedAt:   a.CreatedAt,
	}
}

type entryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	VenueID   string    `json:"venueId,omitempty"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func toEntryResponse(e *models.LedgerEntry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		VenueID:   e.VenueID,
		Amount:    e.Amount,
		Type:      string(e.Kind),
		CreatedAt: e.CreatedAt,
	}
}

func toEntryResponses(entries []*models.LedgerEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

type receiptResponse struct {
	ID            string          `json:"id"`
	VenueID       string          `json:"venueId"`
	UserID        string          `json:"userId"`
	TotalAmount   int64           `json:"totalAmount"`
	ItemsSnapshot json.RawMessage `json:"itemsSnapshot,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toReceiptResponse(r *models.Receipt) receiptResponse {
	return receiptResponse{
		ID:            r.ID,
		VenueID:       r.VenueID,
		UserID:        r.UserID,
		TotalAmount:   r.TotalAmount,
		ItemsSnapshot: r.ItemsSnapshot,
		CreatedAt:     r.CreatedAt,
	}
}

type venueResponse struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	City  string `json:"city,omitempty"`
}

func toVenueResponse(v *models.Venue) venueResponse {
	return venueResponse{ID: v.ID, Slug: v.Slug, Title: v.Title, City: v.City}
}

type marketItemResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PriceNite int64  `json:"priceNite"`
	VenueID   string `json:"venueId,omitempty"`
}

func toMarketItemResponse(m *models.MarketItem) marketItemResponse {
	return marketItemResponse{ID: m.ID, Title: m.Title, PriceNite: m.PriceNite, VenueID: m.VenueID}
}

type feedItemResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	VenueID   string    `json:"venueId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toFeedItemResponse(f *models.FeedItem) feedItemResponse {
	return feedItemResponse{
		ID:        f.ID,
		Type:      f.Type,
		Title:     f.Title,
		Body:      f.Body,
		VenueID:   f.VenueID,
		CreatedAt: f.CreatedAt,
	}
}
