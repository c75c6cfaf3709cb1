package httputil

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/occugraph/pkg/buildinfo"
	"github.com/matzehuels/occugraph/pkg/cache"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/observability"
)

// MaxBodySize bounds a downloaded graph.
const MaxBodySize = 256 << 20

// DefaultTimeout is the per-request timeout of [NewHTTPClient].
const DefaultTimeout = 30 * time.Second

// IsURL reports whether input names an http or https resource rather than
// a local file.
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// NewHTTPClient returns the client used by [Fetcher].
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Fetcher downloads input graphs and caches their bodies.
type Fetcher struct {
	Client  *http.Client
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Backoff Backoff
}

// NewFetcher creates a fetcher backed by c. A nil cache disables caching
// and a nil keyer uses the default keyer.
func NewFetcher(c cache.Cache, keyer cache.Keyer) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Fetcher{
		Client:  NewHTTPClient(),
		Cache:   c,
		Keyer:   keyer,
		TTL:     cache.DefaultTTL,
		Backoff: DefaultBackoff,
	}
}

// Fetch returns the body at url, from the cache unless refresh is set.
// The second result reports a cache hit.
func (f *Fetcher) Fetch(ctx context.Context, url string, refresh bool) ([]byte, bool, error) {
	hooks := observability.Cache()
	key := f.Keyer.InputKey(cache.Hash([]byte(url)))

	if !refresh {
		if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "input")
			return data, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, "input")

	var data []byte
	err := Retry(ctx, f.Backoff, func() error {
		var err error
		data, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if err := f.Cache.Set(ctx, key, data, f.TTL); err == nil {
		hooks.OnCacheSet(ctx, "input", len(data))
	}
	return data, false, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "input %s", url)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "occugraph/"+buildinfo.Version)

	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
	}
	defer resp.Body.Close()

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)}
	}
	if len(data) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", url, MaxBodySize)
	}
	return data, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "input %s: status %d", url, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "fetch %s: status %d", url, code)
	}
}
