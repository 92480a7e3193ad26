package probe

import "context"

// CheckResult is the raw outcome of a single probe, before classification
// into a domain result.
//
// StatusCode is the HTTP status when a response was received; 0 for
// transport-level failures (timeout, DNS, refused connection, TLS).
type CheckResult struct {
	Success    bool
	StatusCode int
	LatencyMS  float64
	Message    string
}

// Checker performs a single check for a given target URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}
