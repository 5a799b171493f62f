package protocol

import "time"

// A report is stale once the collector would already expect the next one
// from the same robot several times over.
var defaultTTLs = map[string]time.Duration{
	TypeRobotReport: 60 * time.Second,
}

// FallbackTTL is used when no specific TTL is configured.
const FallbackTTL = 5 * time.Minute

// DefaultTTLFor returns the default TTL for a message type.
func DefaultTTLFor(msgType string) time.Duration {
	if ttl, ok := defaultTTLs[msgType]; ok {
		return ttl
	}
	return FallbackTTL
}

// IsExpired reports whether env has passed its expiry at time now.
func IsExpired(env *Envelope, now time.Time) bool {
	if env.ExpiresAt.IsZero() {
		return false
	}
	return now.UTC().After(env.ExpiresAt)
}
