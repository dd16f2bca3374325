// Package source caches the ratings site's school listing documents
//
// The site renders every professor of a school into one large HTML page, so
// resolution works against two cached documents: the faculty listing and the
// university-wide fallback listing. Bodies are cached in memory for a TTL
// (ratings move about once a day) and refreshed on demand; a stale body is
// never served. Concurrent refreshes of one key collapse into a single
// upstream GET via singleflight while reads of other keys proceed untouched
package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"profescore/internal/platform/config"
	perr "profescore/internal/platform/errors"

	"golang.org/x/sync/singleflight"
)

// Key names one cached school listing
type Key string

const (
	// KeyPrimary is the Facultad de Ciencias listing
	KeyPrimary Key = "facultad"
	// KeyFallback is the university wide listing
	KeyFallback Key = "unam"
)

const (
	defaultPrimaryURL  = "https://www.misprofesores.com/escuelas/Facultad-de-Ciencias-UNAM_2842"
	defaultFallbackURL = "https://www.misprofesores.com/escuelas/UNAM_1059"

	defaultTTL     = 24 * time.Hour
	defaultTimeout = 10 * time.Second
)

// the site rejects default Go client UAs, so requests look like a browser
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" +
		" (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "es-ES,es;q=0.9,en;q=0.8",
}

// Cache holds the school listing documents keyed by slot
type Cache struct {
	ttl     time.Duration
	timeout time.Duration
	client  *http.Client
	now     func() time.Time
	urls    map[Key]string

	mu      sync.RWMutex
	entries map[Key]entry

	group singleflight.Group
	stats map[Key]*counters
}

type entry struct {
	body      string
	fetchedAt time.Time
}

type counters struct {
	hits    atomic.Uint64
	misses  atomic.Uint64
	fetches atomic.Uint64
}

// Stats is a point-in-time snapshot of one key's counters
type Stats struct {
	Hits    uint64
	Misses  uint64
	Fetches uint64
}

// Option configures the cache
type Option func(*Cache)

// WithTTL overrides how long a fetched document stays fresh
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithTimeout overrides the per-fetch upstream timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

// WithURL overrides the upstream URL for one key
func WithURL(key Key, url string) Option {
	return func(c *Cache) { c.urls[key] = url }
}

// WithHTTPClient swaps the HTTP client, mainly for tests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithClock swaps the time source so expiry is testable
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New builds a cache with both well-known keys registered
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:     defaultTTL,
		timeout: defaultTimeout,
		client:  &http.Client{},
		now:     time.Now,
		urls: map[Key]string{
			KeyPrimary:  defaultPrimaryURL,
			KeyFallback: defaultFallbackURL,
		},
		entries: make(map[Key]entry),
		stats: map[Key]*counters{
			KeyPrimary:  {},
			KeyFallback: {},
		},
	}
	for _, o := range opts {
		o(c)
	}
	// options may register extra keys
	for k := range c.urls {
		if c.stats[k] == nil {
			c.stats[k] = &counters{}
		}
	}
	return c
}

// FromConfig derives options from the SOURCE_* environment view
// unset keys keep the built-in defaults
func FromConfig(cfg config.Conf) []Option {
	v := cfg.Prefix("SOURCE_")
	return []Option{
		WithTTL(v.MayDuration("TTL", defaultTTL)),
		WithTimeout(v.MayDuration("TIMEOUT", defaultTimeout)),
		WithURL(KeyPrimary, v.MayString("PRIMARY_URL", defaultPrimaryURL)),
		WithURL(KeyFallback, v.MayString("FALLBACK_URL", defaultFallbackURL)),
	}
}

// Document returns the listing body for key, fetching when absent or expired
// Concurrent callers racing one expiry share a single upstream GET per key
func (c *Cache) Document(ctx context.Context, key Key) (string, error) {
	url, ok := c.urls[key]
	if !ok {
		return "", perr.InvalidArgf("source: unknown key %q", key)
	}

	if body, ok := c.fresh(key); ok {
		c.counter(key).hits.Add(1)
		return body, nil
	}
	c.counter(key).misses.Add(1)

	v, err, _ := c.group.Do(string(key), func() (any, error) {
		// a caller that lost the race may find the entry already refreshed
		if body, ok := c.fresh(key); ok {
			return body, nil
		}
		body, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		c.counter(key).fetches.Add(1)
		c.mu.Lock()
		c.entries[key] = entry{body: body, fetchedAt: c.now().UTC()}
		c.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Stats snapshots the counters for key; zero value for unknown keys
func (c *Cache) Stats(key Key) Stats {
	cc, ok := c.stats[key]
	if !ok {
		return Stats{}
	}
	return Stats{
		Hits:    cc.hits.Load(),
		Misses:  cc.misses.Load(),
		Fetches: cc.fetches.Load(),
	}
}

// Warm reports whether key currently holds a fresh document
func (c *Cache) Warm(key Key) bool {
	_, ok := c.fresh(key)
	return ok
}

func (c *Cache) fresh(key Key) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.now().UTC().Sub(e.fetchedAt) >= c.ttl {
		return "", false
	}
	return e.body, true
}

func (c *Cache) counter(key Key) *counters {
	return c.stats[key]
}

func (c *Cache) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUpstream, "source: build request")
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", perr.Wrapf(err, perr.ErrorCodeUpstreamTimeout, "source: fetch %s timed out", url)
		}
		return "", perr.Wrapf(err, perr.ErrorCodeUpstream, "source: fetch %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", perr.Upstreamf("source: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", perr.Wrapf(err, perr.ErrorCodeUpstreamTimeout, "source: read %s timed out", url)
		}
		return "", perr.Wrapf(err, perr.ErrorCodeUpstream, "source: read %s", url)
	}
	return string(body), nil
}
