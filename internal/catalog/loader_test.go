package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsBody = `[
	{"id":"p1","name":"Mug","price":9.99,"category":"Kitchen","image":"https://x/mug.jpg"},
	{"id":"p2","name":"Ghost","active":false},
	{"id":"p3","price":5,"category":"Kitchen"}
]`

func TestLoadNormalizesAndIndexes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsBody))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, IDModeHash)
	snap, err := l.Load(context.Background())
	require.NoError(t, err)

	// Inactive and nameless records are dropped at load time.
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "p1", snap.Products[0].ID)
	assert.Equal(t, "kitchen", snap.Products[0].CategorySlug)
	assert.Equal(t, []string{"https://x/mug.jpg"}, snap.Products[0].Images)

	require.Len(t, snap.Categories, 1)
	assert.Equal(t, 1, snap.Categories[0].Count)

	assert.Same(t, snap, l.Snapshot())
	assert.NoError(t, l.LastError())
}

func TestLoadBypassesCaches(t *testing.T) {
	var gotCacheControl string
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotQuery = r.URL.Query().Get("t")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewLoader(srv.URL, IDModeRandom).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "no-store", gotCacheControl)
	assert.NotEmpty(t, gotQuery, "cache-buster parameter")
}

func TestLoadNonArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, IDModeRandom)
	_, err := l.Load(context.Background())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Nil(t, l.Snapshot())
	assert.Error(t, l.LastError())
}

func TestLoadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewLoader(srv.URL, IDModeRandom).Load(context.Background())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, http.StatusInternalServerError, loadErr.Status)
}

func TestFailedReloadKeepsPreviousSnapshot(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"id":"p1","name":"Mug"}]`))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, IDModeRandom)
	first, err := l.Load(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	_, err = l.Load(context.Background())
	require.Error(t, err)

	assert.Same(t, first, l.Snapshot(), "last good catalog survives a failed reload")
	assert.Error(t, l.LastError())

	fail.Store(false)
	_, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.NoError(t, l.LastError(), "a successful load clears the error")
}

func TestLoadUnreachableEndpoint(t *testing.T) {
	l := NewLoader("http://127.0.0.1:1/products.json", IDModeRandom)
	_, err := l.Load(context.Background())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.True(t, errors.Unwrap(loadErr) != nil)
}
