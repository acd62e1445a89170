package catalog

import (
	"sort"
	"strings"
)

// Sort modes. Featured performs no reordering and preserves catalog order.
const (
	SortFeatured  = "featured"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// ViewState is the ephemeral query/category/sort selection driving the
// visible subset of the catalog. It lives for a render, never persisted.
type ViewState struct {
	Query    string `schema:"q"`
	Category string `schema:"cat"`
	Sort     string `schema:"sort"`
}

// Visible returns the ordered subset of the catalog matching the view state.
// Pure function: both filters are conjunctive, the sort is stable, and the
// catalog is never mutated. Safe to call on every keystroke.
func Visible(c *Catalog, vs ViewState) []Product {
	if c == nil {
		return nil
	}

	q := strings.ToLower(strings.TrimSpace(vs.Query))
	cat := vs.Category

	out := make([]Product, 0, len(c.Products))
	for _, p := range c.Products {
		if q != "" {
			hay := strings.ToLower(p.Name + " " + p.Description + " " + p.SKU + " " + p.Category)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		if cat != "" && p.CategorySlug != cat {
			continue
		}
		out = append(out, p)
	}

	switch vs.Sort {
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return lessName(out[i].Name, out[j].Name) })
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return lessName(out[j].Name, out[i].Name) })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[j].Price < out[i].Price })
	}
	return out
}

func lessName(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
