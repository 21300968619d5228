package fetcher

import (
	"errors"

	"combined-feed/internal/resilience/circuitbreaker"
	"combined-feed/internal/resilience/retry"
)

// hostBreakers returns a per-host breaker group that only counts host-level failures.
func hostBreakers(cfg circuitbreaker.Config) *circuitbreaker.Group {
	cfg.IsSuccessful = func(err error) bool { return !hostUnhealthy(err) }
	return circuitbreaker.NewGroup(cfg)
}

// hostUnhealthy reports whether err says the host is struggling (timeouts, refused
// connections, 5xx, 429) rather than that one page is missing or unreadable.
// 404s, paywalls and pages without readable text never open a host's breaker.
func hostUnhealthy(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrReadabilityFailed) || errors.Is(err, ErrNoText) {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	return retry.IsRetryable(err)
}
