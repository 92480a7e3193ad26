package probe

import (
	"context"
	"net/http"
	"time"
)

// UserAgent identifies our probes in target access logs.
const UserAgent = "statuswatch/1.0"

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues one GET against target. A response with status in [200,400)
// counts as up; anything >= 400 is down with the status captured; transport
// failures are down with the error text and no status. Latency covers the
// full attempt, failure paths included.
func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: sinceMS(start)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := h.Client.Do(req)
	latency := sinceMS(start)
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 400
	return CheckResult{
		Success:    success,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
		Message:    resp.Status,
	}
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
