// Package maven checks dependency coordinates against Maven repositories.
package maven

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/dnscache"
	"go.trai.ch/droidcfg/internal/build"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxMetadataSize bounds the metadata documents read from a repository.
const maxMetadataSize = 4 << 20

var (
	errRateLimited  = zerr.New("rate limited by repository")
	errUpstreamDown = zerr.New("repository returned a server error")
)

// Fetcher downloads repository metadata with DNS caching and retries.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithMaxRetries sets the maximum retry attempts.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// NewFetcher creates a Fetcher whose transport resolves hosts through a DNS cache.
func NewFetcher(opts ...Option) *Fetcher {
	resolver := &dnscache.Resolver{}
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	f := &Fetcher{
		client: &http.Client{
			Timeout: time.Minute,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := resolver.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					var dialErr error
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
						dialErr = err
					}
					return nil, zerr.With(zerr.Wrap(dialErr, "failed to dial any resolved IP"), "host", host)
				},
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		userAgent:  build.UserAgent(),
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get downloads url. Rate limiting and server errors are retried with
// exponential backoff. A missing document returns domain.ErrArtifactNotFound.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.baseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			delay += time.Duration(float64(delay) * rand.Float64() * 0.1) //nolint:gosec // Jitter only

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if errors.Is(err, errRateLimited) || errors.Is(err, errUpstreamDown) {
			continue
		}
		return nil, err
	}

	err := zerr.Wrap(lastErr, domain.ErrRepositoryRequestFailed.Error())
	return nil, zerr.With(zerr.With(err, "url", url), "attempts", f.maxRetries+1)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRepositoryRequestFailed.Error())
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml, text/xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRepositoryRequestFailed.Error()), "url", url)
	}
	defer resp.Body.Close() //nolint:errcheck // Body is fully read or discarded

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrRepositoryRequestFailed.Error()), "url", url)
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrArtifactNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, errUpstreamDown
	default:
		err := zerr.With(domain.ErrRepositoryRequestFailed, "url", url)
		return nil, zerr.With(err, "status", strconv.Itoa(resp.StatusCode))
	}
}
