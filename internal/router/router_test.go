package router

import (
	"testing"

	"storefront/internal/catalog"

	"github.com/stretchr/testify/assert"
)

func TestResolveTable(t *testing.T) {
	cases := []struct {
		fragment string
		page     Page
		params   map[string]string
	}{
		{"#/", PageShop, map[string]string{}},
		{"", PageShop, map[string]string{}},
		{"#", PageShop, map[string]string{}},
		{"#/category/kitchen", PageShop, map[string]string{"slug": "kitchen"}},
		{"#/product/p-42", PageProduct, map[string]string{"id": "p-42"}},
		{"#/brands", PageCategories, map[string]string{}},
		{"#/about", PageAbout, map[string]string{}},
		{"#/contact", PageContact, map[string]string{}},
		{"#/admin", PageAdmin, map[string]string{}},
	}

	for _, tc := range cases {
		got := Resolve(tc.fragment)
		assert.Equal(t, tc.page, got.Page, tc.fragment)
		assert.Equal(t, tc.params, got.Params, tc.fragment)
	}
}

func TestResolveUnmatchedFallsBackToShop(t *testing.T) {
	assert.Equal(t, PageShop, Resolve("#/no/such/page").Page)
	assert.Equal(t, PageShop, Resolve("#/product").Page, "missing param segment")
	assert.Equal(t, PageShop, Resolve("#/product/a/b").Page, "extra segment")
}

func TestResolveUnescapesParams(t *testing.T) {
	got := Resolve("#/product/p%2F1")
	assert.Equal(t, PageProduct, got.Page)
	assert.Equal(t, "p/1", got.Params["id"])
}

func TestResolveWithoutHashPrefix(t *testing.T) {
	got := Resolve("/category/toys")
	assert.Equal(t, PageShop, got.Page)
	assert.Equal(t, "toys", got.Params["slug"])
}

func TestApplyToSetsCategory(t *testing.T) {
	vs := catalog.ViewState{Query: "mug"}
	Resolve("#/category/kitchen").ApplyTo(&vs)

	assert.Equal(t, "kitchen", vs.Category)
	assert.Equal(t, "mug", vs.Query, "other view state survives")

	unchanged := catalog.ViewState{Category: "toys"}
	Resolve("#/about").ApplyTo(&unchanged)
	assert.Equal(t, "toys", unchanged.Category)
}
