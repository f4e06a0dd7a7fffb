package models

import "time"

// EntryKind is the business reason for a ledger entry.
type EntryKind string

const (
	KindEarn   EntryKind = "earn"
	KindSpend  EntryKind = "spend"
	KindAdjust EntryKind = "adjust"
)

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	switch k {
	case KindEarn, KindSpend, KindAdjust:
		return true
	}
	return false
}

// LedgerEntry is one immutable row of the Nitecoin ledger. Entries are
// append-only: never updated, never deleted. The sum of a user's entries
// equals the account's materialized balance between transactions.
type LedgerEntry struct {
	ID        string
	UserID    string
	VenueID   string // empty when the entry has no venue context
	Amount    int64  // signed: positive earn/adjust, negative spend/adjust
	Kind      EntryKind
	CreatedAt time.Time
}
