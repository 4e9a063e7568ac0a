package ids

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// New returns a user identity. UUIDs keep identities opaque and stable
// across the directory.
func New() string {
	return uuid.NewString()
}

// NewSession returns a session identifier. KSUIDs sort by creation time,
// which makes session keys easy to eyeball in redis.
func NewSession() string {
	return ksuid.New().String()
}
