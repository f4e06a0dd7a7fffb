// Package analytics is the best-effort event sink backed by MongoDB. The
// relational ledger stays authoritative; events here only feed dashboards,
// so publishing failures are logged and never fail the calling request.
package analytics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nitelabs/niteos/internal/logging"
)

const (
	databaseName   = "niteos"
	collectionName = "event_logs"
)

// Event is one analytics record.
type Event struct {
	Type      string    `bson:"type" json:"type"`
	UserID    string    `bson:"userId,omitempty" json:"userId,omitempty"`
	VenueID   string    `bson:"venueId,omitempty" json:"venueId,omitempty"`
	Payload   bson.M    `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Sink writes events to the event_logs collection. A nil *Sink is valid
// and drops everything, which is how the server runs with no Mongo
// configured.
type Sink struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger logging.Logger
}

// Connect dials the sink and verifies the connection.
func Connect(ctx context.Context, uri string, l logging.Logger) (*Sink, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Sink{
		client: client,
		coll:   client.Database(databaseName).Collection(collectionName),
		logger: l.With("module", "analytics"),
	}, nil
}

// Publish stores one event. Errors are logged, not returned.
func (s *Sink) Publish(ctx context.Context, event Event) {
	if s == nil {
		return
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if _, err := s.coll.InsertOne(ctx, event); err != nil {
		s.logger.Warn(ctx, "event publish failed", "type", event.Type, "error", err)
	}
}

// Recent returns the newest events, up to limit. A nil sink returns an
// empty slice.
func (s *Sink) Recent(ctx context.Context, limit int64) ([]Event, error) {
	if s == nil {
		return []Event{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []Event{}
	}

	return events, nil
}

// Close disconnects the underlying client.
func (s *Sink) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
