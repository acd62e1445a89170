package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, 1.0, s.PriceMultiplier)
	assert.Empty(t, s.HeroTitle)
}

func TestFetchOverlaysDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hero_title":"Summer Sale","theme":"light","price_multiplier":1.2}`))
	}))
	defer srv.Close()

	s := Fetch(context.Background(), srv.URL)
	assert.Equal(t, "Summer Sale", s.HeroTitle)
	assert.Equal(t, "light", s.Theme)
	assert.Equal(t, 1.2, s.PriceMultiplier)
}

func TestFetchFailuresYieldDefaults(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer notFound.Close()
	badBody := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer badBody.Close()

	ctx := context.Background()
	assert.Equal(t, Defaults(), Fetch(ctx, ""))
	assert.Equal(t, Defaults(), Fetch(ctx, notFound.URL))
	assert.Equal(t, Defaults(), Fetch(ctx, badBody.URL))
	assert.Equal(t, Defaults(), Fetch(ctx, "http://127.0.0.1:1/settings.json"))
}

func TestFetchSanitizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"theme":"neon","price_multiplier":-3}`))
	}))
	defer srv.Close()

	s := Fetch(context.Background(), srv.URL)
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, 1.0, s.PriceMultiplier)
}
