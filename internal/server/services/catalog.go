package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nitelabs/niteos/internal/logging"
	"github.com/nitelabs/niteos/internal/server/models"
	"github.com/nitelabs/niteos/internal/server/repositories/repomanager"
	"github.com/nitelabs/niteos/internal/shared"
)

// CatalogService covers the thin collaborators around the loyalty core:
// venues, the nite market and the platform feed.
type CatalogService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewCatalogService(db *sql.DB, repos repomanager.RepositoryManager, l logging.Logger) *CatalogService {
	return &CatalogService{db: db, repos: repos, logger: l.With("module", "catalog")}
}

func (s *CatalogService) CreateVenue(ctx context.Context, slug, title, city string) (*models.Venue, error) {
	venue := &models.Venue{ID: uuid.New().String(), Slug: slug, Title: title, City: city}
	venue, err := s.repos.Venues(s.db).Create(ctx, venue)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return venue, nil
}

func (s *CatalogService) ListVenues(ctx context.Context) ([]*models.Venue, error) {
	list, err := s.repos.Venues(s.db).List(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return list, nil
}

func (s *CatalogService) GetVenueBySlug(ctx context.Context, slug string) (*models.Venue, error) {
	venue, err := s.repos.Venues(s.db).GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorNotFound
		}
		return nil, translateStorageErr(err)
	}
	return venue, nil
}

func (s *CatalogService) CreateMarketItem(ctx context.Context, title string, priceNite int64, venueID string) (*models.MarketItem, error) {
	item := &models.MarketItem{ID: uuid.New().String(), Title: title, PriceNite: priceNite, VenueID: venueID}
	item, err := s.repos.Market(s.db).Create(ctx, item)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return item, nil
}

func (s *CatalogService) ListMarketItems(ctx context.Context) ([]*models.MarketItem, error) {
	list, err := s.repos.Market(s.db).List(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return list, nil
}

func (s *CatalogService) CreateFeedItem(ctx context.Context, kind, title, body, venueID string) (*models.FeedItem, error) {
	item := &models.FeedItem{
		ID:        uuid.New().String(),
		Type:      kind,
		Title:     title,
		Body:      body,
		VenueID:   venueID,
		CreatedAt: time.Now().UTC(),
	}
	item, err := s.repos.Feed(s.db).Create(ctx, item)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return item, nil
}

func (s *CatalogService) ListFeed(ctx context.Context) ([]*models.FeedItem, error) {
	list, err := s.repos.Feed(s.db).List(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}
	return list, nil
}

// SeedFeed publishes the launch posts once, on an empty feed. Safe to call
// on every boot.
func (s *CatalogService) SeedFeed(ctx context.Context) error {

	n, err := s.repos.Feed(s.db).Count(ctx)
	if err != nil {
		return translateStorageErr(err)
	}
	if n > 0 {
		return nil
	}

	posts := []struct{ kind, title, body string }{
		{"news", "Welcome to NiteOS v7", "System Online. Economy Active."},
		{"event", "Launch Party", "Double XP is now ENABLED."},
	}
	for _, p := range posts {
		if _, err := s.CreateFeedItem(ctx, p.kind, p.title, p.body, ""); err != nil {
			return err
		}
	}

	s.logger.Info(ctx, "feed seeded", "posts", len(posts))
	return nil
}
