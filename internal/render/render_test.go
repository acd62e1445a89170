package render

import (
	"errors"
	"strings"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() *Renderer {
	return New("Test Shop", "USD", settings.Defaults())
}

func renderSnapshot() *catalog.Catalog {
	return catalog.NewSnapshot([]catalog.Product{
		{ID: "p1", Name: "Mug & Co", Category: "Kitchen", CategorySlug: "kitchen",
			Price: 9.99, SKU: "MUG-1", Images: []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg"}},
		{ID: "p2", Name: "Pan", Category: "Kitchen", CategorySlug: "kitchen", Price: 24.5},
	})
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(0, "USD"))
	assert.Equal(t, "$9.99", FormatMoney(9.99, "usd"))
	assert.Equal(t, "$1,234.50", FormatMoney(1234.5, "USD"))
	assert.Equal(t, "€1,000,000.00", FormatMoney(1e6, "EUR"))
	assert.Equal(t, "SEK 12.30", FormatMoney(12.3, "SEK"))
	assert.Equal(t, "-$5.00", FormatMoney(-5, "USD"))
	assert.Equal(t, "$0.10", FormatMoney(0.1+0.2-0.2, "USD"), "rounds at format time")
}

func TestGalleryWrapsBothEnds(t *testing.T) {
	g := NewGallery([]string{"a", "b", "c"}, 0)

	assert.Equal(t, "c", g.Prev().Current(), "prev from first wraps to last")
	assert.Equal(t, "a", g.Select(2).Next().Current(), "next from last wraps to first")
	assert.Equal(t, "b", g.Select(4).Current(), "overflow select wraps")
	assert.Equal(t, "c", NewGallery([]string{"a", "b", "c"}, -1).Current())
}

func TestGalleryEmpty(t *testing.T) {
	g := NewGallery(nil, 3)
	assert.Equal(t, "", g.Current())
	assert.Equal(t, 0, g.Next().Index)
}

func TestShopRendersCardsAndEscapes(t *testing.T) {
	out := newTestRenderer().Shop(renderSnapshot(), catalog.ViewState{}, nil)

	assert.Contains(t, out, "All Products")
	assert.Contains(t, out, "Mug &amp; Co", "names are HTML-escaped")
	assert.Contains(t, out, "$9.99")
	assert.Contains(t, out, `href="#/product/p1"`)
	assert.Contains(t, out, "mini-strip", "extra images get a thumbnail strip")
}

func TestShopCategoryHeader(t *testing.T) {
	out := newTestRenderer().Shop(renderSnapshot(), catalog.ViewState{Category: "kitchen"}, nil)

	assert.Contains(t, out, "<h2>Kitchen</h2>", "real spelling, not a de-slugged guess")
	assert.Contains(t, out, ">Clear<")
	assert.NotContains(t, out, "All Products")
}

func TestShopEmptyResult(t *testing.T) {
	out := newTestRenderer().Shop(renderSnapshot(), catalog.ViewState{Query: "zzz"}, nil)
	assert.Contains(t, out, "No products found.")
}

func TestShopNilSnapshotStates(t *testing.T) {
	r := newTestRenderer()

	assert.Contains(t, r.Shop(nil, catalog.ViewState{}, errors.New("boom")), "Could not load products.")
	assert.Contains(t, r.Shop(nil, catalog.ViewState{}, nil), "skel-card", "no error yet means skeleton")
}

func TestSafeItemContainsPanic(t *testing.T) {
	r := newTestRenderer()

	out := r.safeItem(func() string { panic("render bug") })
	assert.Equal(t, itemPlaceholder, out)

	ok := r.safeItem(func() string { return "fine" })
	assert.Equal(t, "fine", ok)
}

func TestProductPage(t *testing.T) {
	snap := renderSnapshot()
	r := newTestRenderer()

	out := r.ProductPage(snap.Find("p1"), 1)
	assert.Contains(t, out, `src="https://x/2.jpg"`, "main image honors the index")
	assert.Contains(t, out, `class="thumb active" data-i="1"`, "active thumbnail matches the main image")
	assert.Contains(t, out, "Add to cart")

	wrapped := r.ProductPage(snap.Find("p1"), -1)
	assert.Contains(t, wrapped, `src="https://x/3.jpg"`)

	assert.Contains(t, r.ProductPage(nil, 0), "Product not found.")
}

func TestProductPagePaymentLink(t *testing.T) {
	p := &catalog.Product{ID: "p9", Name: "Kit", PaymentURL: "https://pay.example/kit"}
	out := newTestRenderer().ProductPage(p, 0)

	assert.Contains(t, out, `href="https://pay.example/kit"`)
	assert.NotContains(t, out, `data-buy="p9"`, "direct payment link replaces the buy button")
}

func TestCategoriesPageAndChips(t *testing.T) {
	snap := renderSnapshot()
	r := newTestRenderer()

	page := r.CategoriesPage(snap, nil)
	assert.Contains(t, page, "Kitchen")
	assert.Contains(t, page, "2 items")

	chips := r.CategoryChips(snap, "kitchen")
	assert.Contains(t, chips, `chip active`)
	assert.Contains(t, chips, "Kitchen (2)")
	assert.Equal(t, "", r.CategoryChips(nil, ""))
}

func TestCartView(t *testing.T) {
	r := newTestRenderer()

	empty := r.Cart(&cart.Cart{Items: []cart.LineItem{}})
	assert.Equal(t, 0, empty.Count)
	assert.Contains(t, empty.Items, "Your cart is empty.")
	assert.Equal(t, "$0.00", empty.Subtotal)

	view := r.Cart(&cart.Cart{Items: []cart.LineItem{
		{ProductID: "p1", Name: "Mug", Price: 9.99, Quantity: 2},
		{ProductID: "p2", Name: "Pan", Price: 24.5, Quantity: 1},
	}})
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, "$44.48", view.Subtotal)
	assert.Contains(t, view.Items, `data-inc="p1"`)
	assert.Contains(t, view.Items, "$19.98", "line total")
}

func TestPriceMultiplierApplied(t *testing.T) {
	set := settings.Defaults()
	set.PriceMultiplier = 2
	r := New("Shop", "USD", set)

	out := r.Shop(renderSnapshot(), catalog.ViewState{}, nil)
	assert.Contains(t, out, "$19.98")
	assert.NotContains(t, out, "$9.99")

	view := r.Cart(&cart.Cart{Items: []cart.LineItem{{ProductID: "p1", Price: 10, Quantity: 1}}})
	assert.Equal(t, "$20.00", view.Subtotal)
}

func TestHeroOnlyWithSettings(t *testing.T) {
	set := settings.Defaults()
	set.HeroTitle = "Big <Sale>"
	r := New("Shop", "USD", set)

	out := r.Shop(renderSnapshot(), catalog.ViewState{}, nil)
	assert.Contains(t, out, "Big &lt;Sale&gt;")

	plain := newTestRenderer().Shop(renderSnapshot(), catalog.ViewState{}, nil)
	assert.False(t, strings.Contains(plain, "<section class=\"hero\""))
}

func TestAdminPage(t *testing.T) {
	r := newTestRenderer()
	snap := renderSnapshot()

	out := r.AdminPage(snap, errors.New("fetch: 502"))
	assert.Contains(t, out, "<dd>2</dd>")
	assert.Contains(t, out, "fetch: 502")

	require.Contains(t, r.AdminPage(nil, nil), "not loaded")
}
