package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront/internal/util"

	"go.uber.org/zap"
)

// LoadError reports a failed catalog fetch or parse. The caller renders a
// visible error state; the rest of the page shell stays usable.
type LoadError struct {
	URL    string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog load failed: %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("catalog load failed: %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader fetches the products JSON and owns the in-memory catalog snapshot.
// Load replaces the snapshot wholesale; readers treat it as immutable.
type Loader struct {
	url    string
	idMode string
	client *http.Client
	logger *zap.Logger

	mu      sync.RWMutex
	snap    *Catalog
	lastErr error
}

// NewLoader creates a loader for the given products endpoint.
func NewLoader(productsURL, idMode string) *Loader {
	if idMode != IDModeHash {
		idMode = IDModeRandom
	}
	return &Loader{
		url:    productsURL,
		idMode: idMode,
		// No timeout: a hung fetch leaves the app in its loading state,
		// and a user-initiated reload is the only retry path.
		client: &http.Client{},
		logger: util.GetLogger(),
	}
}

// Load fetches, parses and normalizes the catalog, then swaps the snapshot.
// On failure the previous snapshot (if any) is kept so cart lookups and
// navigation keep working against the last good data.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	ctx, span := util.StartSpan(ctx, "Loader.Load")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CatalogLoadLatency.Observe(time.Since(start).Seconds())
	}()

	raw, err := l.fetch(ctx)
	if err != nil {
		util.CatalogLoadsTotal.WithLabelValues("error").Inc()
		l.logger.Error("Catalog load failed", zap.String("url", l.url), zap.Error(err))
		l.setError(err)
		return nil, err
	}

	snap := newCatalog(raw, l.idMode)

	l.mu.Lock()
	l.snap = snap
	l.lastErr = nil
	l.mu.Unlock()

	util.CatalogLoadsTotal.WithLabelValues("success").Inc()
	util.CatalogProducts.Set(float64(len(snap.Products)))
	util.CatalogCategories.Set(float64(len(snap.Categories)))
	l.logger.Info("Catalog loaded",
		zap.Int("products", len(snap.Products)),
		zap.Int("categories", len(snap.Categories)))

	return snap, nil
}

func (l *Loader) fetch(ctx context.Context) ([]rawProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.bustCache(l.url), nil)
	if err != nil {
		return nil, &LoadError{URL: l.url, Err: err}
	}
	// Staleness is worse than a slow load: the data file changes out-of-band.
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	res, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{URL: l.url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, &LoadError{URL: l.url, Status: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &LoadError{URL: l.url, Err: err}
	}

	var raw []rawProduct
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &LoadError{URL: l.url, Err: fmt.Errorf("expected a JSON array: %w", err)}
	}
	return raw, nil
}

func (l *Loader) bustCache(u string) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "t=" + url.QueryEscape(strconv.FormatInt(time.Now().UnixNano(), 36))
}

// Snapshot returns the current catalog, or nil before the first successful load.
func (l *Loader) Snapshot() *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// LastError returns the most recent load error, cleared by a successful load.
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

func (l *Loader) setError(err error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()
}
