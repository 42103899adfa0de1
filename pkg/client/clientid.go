package client

import "github.com/google/uuid"

// NewClientID returns a fresh identifier for one session against the feed.
// The server keys its per-client event queue on it.
func NewClientID() string {
	return uuid.NewString()
}
