package models

import "time"

// Account is a user's loyalty account. NiteBalance never goes negative;
// XP and Level only ever grow. The account row is mutated exclusively
// inside an atomic checkout or an administrative adjustment.
type Account struct {
	ID          string
	Email       string
	NiteBalance int64
	XP          int64
	Level       int64
	CreatedAt   time.Time
}
