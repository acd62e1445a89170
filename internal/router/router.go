package router

import (
	"net/url"
	"strings"

	"storefront/internal/catalog"
)

// Page names the logical pages a location fragment can resolve to.
type Page string

const (
	PageShop       Page = "shop"
	PageProduct    Page = "product"
	PageCategories Page = "categories"
	PageAbout      Page = "about"
	PageContact    Page = "contact"
	PageAdmin      Page = "admin"
)

// Route is the result of resolving one location fragment.
type Route struct {
	Page   Page
	Params map[string]string
}

// pattern table, checked in order. A category fragment resolves to the shop
// page: the category selection travels through view state, not as a
// separate page.
var patterns = []struct {
	pattern string
	page    Page
}{
	{"/", PageShop},
	{"/category/:slug", PageShop},
	{"/product/:id", PageProduct},
	{"/brands", PageCategories},
	{"/about", PageAbout},
	{"/contact", PageContact},
	{"/admin", PageAdmin},
}

// Resolve maps a location fragment ("#/product/abc") to a page plus path
// parameters. Unmatched fragments fall back to the shop page; there is no
// 404 state.
func Resolve(fragment string) Route {
	path := strings.TrimPrefix(fragment, "#")
	if path == "" {
		path = "/"
	}
	for _, entry := range patterns {
		if params, ok := match(entry.pattern, path); ok {
			return Route{Page: entry.page, Params: params}
		}
	}
	return Route{Page: PageShop, Params: map[string]string{}}
}

func match(pattern, path string) (map[string]string, bool) {
	p := segments(pattern)
	a := segments(path)
	if len(p) != len(a) {
		return nil, false
	}
	params := map[string]string{}
	for i := range p {
		if strings.HasPrefix(p[i], ":") {
			params[p[i][1:]] = unescape(a[i])
		} else if p[i] != a[i] {
			return nil, false
		}
	}
	return params, true
}

func segments(s string) []string {
	parts := strings.Split(s, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// ApplyTo writes route parameters into the view state: resolving a category
// fragment is equivalent to selecting that category filter on the shop page.
func (r Route) ApplyTo(vs *catalog.ViewState) {
	if slug, ok := r.Params["slug"]; ok {
		vs.Category = slug
	}
}
