package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator creates identifiers for extraction runs. Every record written by
// one batch carries the same run ID.
type Generator interface {
	NewID() (string, error)
}

// RunIDGenerator prefixes random bytes with the UTC start time so run IDs
// sort chronologically.
type RunIDGenerator struct {
	now func() time.Time
}

func NewRunIDGenerator() *RunIDGenerator {
	return &RunIDGenerator{now: time.Now}
}

func (g *RunIDGenerator) NewID() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	now := time.Now
	if g != nil && g.now != nil {
		now = g.now
	}
	return now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf), nil
}
