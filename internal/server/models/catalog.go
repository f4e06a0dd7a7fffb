package models

import "time"

// Venue is a participating location.
type Venue struct {
	ID    string
	Slug  string
	Title string
	City  string
}

// MarketItem is a catalog item priced in Nitecoin.
type MarketItem struct {
	ID        string
	Title     string
	PriceNite int64
	VenueID   string
}

// FeedItem is a news or event post on the platform feed.
type FeedItem struct {
	ID        string
	Type      string // "news" or "event"
	Title     string
	Body      string
	VenueID   string
	CreatedAt time.Time
}
