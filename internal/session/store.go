// Package session binds issued access tokens to server-side sessions.
// The session identifier travels in a cookie; the token never does.
package session

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// Store is keyed ephemeral state with an inactivity TTL. Lookup
// refreshes the TTL, so a session only dies after a quiet period,
// independent of the token's own expiry.
type Store interface {
	// Bind writes the token under the session key, overwriting any
	// previous binding.
	Bind(ctx context.Context, sessionID, userID, token string) error
	// Lookup returns the bound token and refreshes the TTL.
	Lookup(ctx context.Context, sessionID string) (string, error)
	// Clear removes a single session.
	Clear(ctx context.Context, sessionID string) error
	// ClearUser removes every session bound to a user.
	ClearUser(ctx context.Context, userID string) error
}
