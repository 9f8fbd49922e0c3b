// Package ident provides identifier generation and the clock used
// for record timestamps. Both are injected into the stores so tests
// can substitute deterministic implementations.
package ident

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator produces the identifiers and display tokens used across
// the stores. Payment ids and tracking numbers are opaque strings
// with a human-recognizable prefix; only uniqueness matters.
type Generator interface {
	NewID() string
	NewPaymentID() string
	NewTrackingNumber() string
}

// Clock is the timestamp source for created/updated/delivery dates.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator is the production Generator, backed by random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

func (UUIDGenerator) NewPaymentID() string {
	return "PAY-" + upperHex(8)
}

func (UUIDGenerator) NewTrackingNumber() string {
	return "TRACK-" + upperHex(12)
}

func upperHex(n int) string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:]))[:n]
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
