package maven

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
)

// tripThreshold is the number of consecutive failures that opens a breaker.
const tripThreshold = 5

// BreakerFetcher wraps a Fetcher with one circuit breaker per repository host.
type BreakerFetcher struct {
	fetcher  *Fetcher
	breakers map[string]*circuit.Breaker
	mu       sync.RWMutex
}

// NewBreakerFetcher creates a BreakerFetcher around f.
func NewBreakerFetcher(f *Fetcher) *BreakerFetcher {
	return &BreakerFetcher{
		fetcher:  f,
		breakers: make(map[string]*circuit.Breaker),
	}
}

func (b *BreakerFetcher) breaker(host string) *circuit.Breaker {
	b.mu.RLock()
	breaker, ok := b.breakers[host]
	b.mu.RUnlock()
	if ok {
		return breaker
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if breaker, ok := b.breakers[host]; ok {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(tripThreshold),
	})
	b.breakers[host] = breaker
	return breaker
}

// Get fetches rawURL unless the breaker for its host is open.
// Missing documents do not count as failures.
func (b *BreakerFetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	host := hostOf(rawURL)
	breaker := b.breaker(host)

	if !breaker.Ready() {
		return nil, zerr.With(domain.ErrRepositoryUnavailable, "host", host)
	}

	var body []byte
	var notFound bool
	err := breaker.Call(func() error {
		var fetchErr error
		body, fetchErr = b.fetcher.Get(ctx, rawURL)
		if errors.Is(fetchErr, domain.ErrArtifactNotFound) {
			notFound = true
			return nil
		}
		return fetchErr
	}, 0)

	switch {
	case err != nil:
		return nil, err
	case notFound:
		return nil, domain.ErrArtifactNotFound
	default:
		return body, nil
	}
}

// Tripped reports whether the breaker for host is open.
func (b *BreakerFetcher) Tripped(host string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	breaker, ok := b.breakers[host]
	return ok && breaker.Tripped()
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
