package settings

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"storefront/internal/util"

	"github.com/creasty/defaults"
	"go.uber.org/zap"
)

// Settings are display-affecting preferences synced from the content source.
// They are best-effort and additive: every consumer must work with the
// all-defaults object, and a failed fetch silently yields the defaults.
type Settings struct {
	HeroTitle       string  `json:"hero_title"`
	HeroSubtitle    string  `json:"hero_subtitle"`
	BackgroundURL   string  `json:"background_url"`
	Theme           string  `json:"theme" default:"dark"`
	PriceMultiplier float64 `json:"price_multiplier" default:"1"`
	PrimaryColor    string  `json:"primary_color"`
}

// Defaults returns the hard-coded settings object.
func Defaults() Settings {
	var s Settings
	_ = defaults.Set(&s)
	return s
}

// Fetch loads the settings JSON and merges it over the defaults. Any failure
// (no URL configured, network, status, parse) returns the defaults; settings
// must never block catalog rendering.
func Fetch(ctx context.Context, url string) Settings {
	s := Defaults()
	if url == "" {
		return s
	}

	logger := util.GetLogger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return s
	}
	req.Header.Set("Cache-Control", "no-store")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Warn("Settings fetch failed, using defaults", zap.Error(err))
		return s
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		logger.Warn("Settings fetch failed, using defaults", zap.Int("status", res.StatusCode))
		return s
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(body, &s); err != nil {
		logger.Warn("Settings parse failed, using defaults", zap.Error(err))
		return Defaults()
	}
	return sanitize(s)
}

func sanitize(s Settings) Settings {
	if s.PriceMultiplier <= 0 {
		s.PriceMultiplier = 1
	}
	if s.Theme != "dark" && s.Theme != "light" {
		s.Theme = "dark"
	}
	return s
}
