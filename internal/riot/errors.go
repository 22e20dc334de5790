package riot

import "errors"

// Upstream failures are normalized into these conditions; callers decide
// between stale fallback, propagation, and client-error mapping with
// errors.Is.
var (
	// ErrNotFound is a confirmed-absent upstream entity (unknown player,
	// unknown match). Never retried, never cached as a negative result.
	ErrNotFound = errors.New("upstream entity not found")

	// ErrUpstreamUnavailable is a timeout or transient upstream failure.
	// Eligible for stale fallback where the query type allows it.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUnknownPlatform is a routing/input error: the platform code does
	// not belong to any known cluster.
	ErrUnknownPlatform = errors.New("unknown platform")
)
