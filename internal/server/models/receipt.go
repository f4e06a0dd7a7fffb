package models

import (
	"encoding/json"
	"time"
)

// Receipt records one completed point-of-sale checkout. It corresponds to
// exactly one spend ledger entry written in the same transaction.
type Receipt struct {
	ID            string
	VenueID       string
	UserID        string
	TotalAmount   int64
	ItemsSnapshot json.RawMessage
	CreatedAt     time.Time
}
