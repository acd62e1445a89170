package render

import (
	"fmt"
	"html"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/settings"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// Renderer produces region markup from catalog, cart and view state. It is
// pure string transformation: no transport, no storage, no handler wiring.
// Each method returns a complete replacement for its target region.
type Renderer struct {
	storeName string
	currency  string
	set       settings.Settings
	logger    *zap.Logger
}

// New creates a renderer for the given store identity and settings overlay.
func New(storeName, currency string, set settings.Settings) *Renderer {
	return &Renderer{
		storeName: strings.TrimSpace(storeName),
		currency:  currency,
		set:       set,
		logger:    util.GetLogger(),
	}
}

// price formats a display price with the settings multiplier applied.
func (r *Renderer) price(v float64) string {
	return FormatMoney(v*r.set.PriceMultiplier, r.currency)
}

func esc(s string) string {
	return html.EscapeString(s)
}

func initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0][:1])
}

const itemPlaceholder = `<article class="card placeholder"><div class="body"><p class="hint">Unavailable</p></div></article>`

// safeItem contains a single item's render failure: the slot degrades to a
// placeholder and the rest of the region still renders.
func (r *Renderer) safeItem(render func() string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			util.RenderItemFailuresTotal.Inc()
			r.logger.Warn("Item render failed, substituting placeholder", zap.Any("cause", rec))
			out = itemPlaceholder
		}
	}()
	return render()
}

// LoadErrorNotice is the visible, non-fatal state for a failed catalog load.
// Navigation and theme stay usable around it.
func (r *Renderer) LoadErrorNotice() string {
	return `<p class="hint" style="padding:16px">Could not load products.</p>`
}

// Skeleton is the placeholder grid shown while the catalog fetch is in flight.
func (r *Renderer) Skeleton() string {
	var b strings.Builder
	b.WriteString(`<div class="grid">`)
	for i := 0; i < 6; i++ {
		b.WriteString(`<div class="skel-card"><div class="skel-img skeleton"></div><div class="skel-body"><div class="skeleton"></div><div class="skeleton"></div></div></div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// Shop renders the home/category listing region for the visible subset of
// the catalog.
func (r *Renderer) Shop(snap *catalog.Catalog, vs catalog.ViewState, loadErr error) string {
	if snap == nil {
		if loadErr != nil {
			return r.LoadErrorNotice()
		}
		return r.Skeleton()
	}

	var b strings.Builder
	if vs.Category != "" {
		fmt.Fprintf(&b, `<div class="pagehead"><h2>%s</h2><a class="chip" href="#/">Clear</a></div>`,
			esc(categoryTitle(snap, vs.Category)))
	} else {
		b.WriteString(r.hero())
		b.WriteString(`<div class="pagehead"><h2>All Products</h2></div>`)
	}

	visible := catalog.Visible(snap, vs)
	if len(visible) == 0 {
		b.WriteString(`<p class="hint" style="padding:16px">No products found.</p>`)
		return b.String()
	}

	b.WriteString(`<div class="grid">`)
	for i := range visible {
		p := &visible[i]
		b.WriteString(r.safeItem(func() string { return r.card(p) }))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// categoryTitle prefers the real category spelling over a de-slugged guess.
func categoryTitle(snap *catalog.Catalog, slug string) string {
	for _, c := range snap.Categories {
		if c.Slug == slug {
			return c.Name
		}
	}
	return catalog.UnSlug(slug)
}

func (r *Renderer) hero() string {
	if r.set.HeroTitle == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<section class="hero"`)
	if r.set.BackgroundURL != "" {
		fmt.Fprintf(&b, ` style="background-image:url('%s')"`, esc(r.set.BackgroundURL))
	}
	b.WriteString(`>`)
	fmt.Fprintf(&b, `<h1>%s</h1>`, esc(r.set.HeroTitle))
	if r.set.HeroSubtitle != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, esc(r.set.HeroSubtitle))
	}
	b.WriteString(`</section>`)
	return b.String()
}

func (r *Renderer) card(p *catalog.Product) string {
	var b strings.Builder
	b.WriteString(`<article class="card">`)
	fmt.Fprintf(&b, `<a href="#/product/%s"><div class="imgwrap">`, esc(p.ID))
	if img := p.FirstImage(); img != "" {
		fmt.Fprintf(&b, `<img alt="%s" src="%s" loading="lazy">`, esc(p.Name), esc(img))
	} else {
		b.WriteString(`<div class="badge">No image</div>`)
	}
	b.WriteString(r.logoBadge(p))
	b.WriteString(`</div></a>`)

	if len(p.Images) > 1 {
		b.WriteString(`<div class="mini-strip">`)
		for _, u := range p.Images[1:min(len(p.Images), 4)] {
			fmt.Fprintf(&b, `<span class="mini" style="background-image:url('%s')"></span>`, esc(u))
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`<div class="body">`)
	fmt.Fprintf(&b, `<div><a class="chip" href="#/category/%s">%s</a></div>`, esc(p.CategorySlug), esc(p.Category))
	fmt.Fprintf(&b, `<h3><a href="#/product/%s">%s</a></h3>`, esc(p.ID), esc(p.Name))
	fmt.Fprintf(&b, `<div class="price">%s</div>`, r.price(p.Price))
	if p.SKU != "" {
		fmt.Fprintf(&b, `<div class="sku">%s</div>`, esc(p.SKU))
	}
	fmt.Fprintf(&b, `<div class="desc">%s</div>`, esc(p.Description))
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<div class="actions"><button data-add="%s">Add</button><button class="primary" data-buy="%s">Buy</button></div>`,
		esc(p.ID), esc(p.ID))
	b.WriteString(`</article>`)
	return b.String()
}

func (r *Renderer) logoBadge(p *catalog.Product) string {
	if p.Logo != "" {
		return fmt.Sprintf(`<div class="logo-badge"><img alt="" src="%s" loading="lazy"></div>`, esc(p.Logo))
	}
	return fmt.Sprintf(`<div class="logo-badge"><span class="logo-fallback">%s</span></div>`, esc(initials(p.Name)))
}

// ProductPage renders the single-product region with its image gallery
// positioned at imageIndex (wrapped into range).
func (r *Renderer) ProductPage(p *catalog.Product, imageIndex int) string {
	if p == nil {
		return `<p class="hint" style="padding:16px">Product not found.</p>`
	}

	g := NewGallery(p.Images, imageIndex)

	var b strings.Builder
	b.WriteString(`<div class="product-page"><div class="gallery"><div class="gallery-main">`)
	if cur := g.Current(); cur != "" {
		fmt.Fprintf(&b, `<img id="gMain" src="%s" alt="%s" loading="eager">`, esc(cur), esc(p.Name))
	} else {
		b.WriteString(`<div class="badge">No image</div>`)
	}
	b.WriteString(r.logoBadge(p))
	b.WriteString(`<button class="g-nav prev" id="gPrev" aria-label="Previous image">&lsaquo;</button>`)
	b.WriteString(`<button class="g-nav next" id="gNext" aria-label="Next image">&rsaquo;</button>`)
	b.WriteString(`</div>`)

	if len(g.Images) > 1 {
		b.WriteString(`<div class="gallery-thumbs" id="gThumbs">`)
		for i, u := range g.Images {
			active := ""
			if i == g.Index {
				active = " active"
			}
			fmt.Fprintf(&b, `<button class="thumb%s" data-i="%d" aria-label="Image %d"><img src="%s" alt=""></button>`,
				active, i, i+1, esc(u))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="body">`)
	fmt.Fprintf(&b, `<a class="chip" href="#/category/%s">%s</a>`, esc(p.CategorySlug), esc(p.Category))
	fmt.Fprintf(&b, `<h2>%s</h2>`, esc(p.Name))
	fmt.Fprintf(&b, `<div class="price">%s</div>`, r.price(p.Price))
	fmt.Fprintf(&b, `<div class="sku">%s</div>`, esc(p.SKU))
	fmt.Fprintf(&b, `<p class="desc">%s</p>`, esc(p.Description))
	b.WriteString(`<div class="actions">`)
	fmt.Fprintf(&b, `<button data-add="%s">Add to cart</button>`, esc(p.ID))
	if p.PaymentURL != "" {
		fmt.Fprintf(&b, `<a class="primary btn-link" href="%s" target="_blank" rel="noopener">Buy now</a>`, esc(p.PaymentURL))
	} else {
		fmt.Fprintf(&b, `<button class="primary" data-buy="%s">Buy now</button>`, esc(p.ID))
	}
	b.WriteString(`</div>`)
	b.WriteString(`<div class="backlink"><a href="#/">&larr; Back to products</a></div>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

// CategoriesPage renders the categories overview with each category's hero
// image and member count.
func (r *Renderer) CategoriesPage(snap *catalog.Catalog, loadErr error) string {
	if snap == nil {
		if loadErr != nil {
			return r.LoadErrorNotice()
		}
		return r.Skeleton()
	}

	var b strings.Builder
	b.WriteString(`<div class="pagehead"><h2>Categories</h2></div><div class="grid">`)
	for i := range snap.Categories {
		c := &snap.Categories[i]
		b.WriteString(r.safeItem(func() string { return r.categoryTile(c) }))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (r *Renderer) categoryTile(c *catalog.Category) string {
	var b strings.Builder
	b.WriteString(`<article class="card">`)
	fmt.Fprintf(&b, `<a href="#/category/%s"><div class="imgwrap">`, esc(c.Slug))
	if c.Hero != "" {
		fmt.Fprintf(&b, `<img alt="%s" src="%s" loading="lazy">`, esc(c.Name), esc(c.Hero))
	} else {
		b.WriteString(`<div class="badge">No image</div>`)
	}
	b.WriteString(`</div></a><div class="body">`)
	fmt.Fprintf(&b, `<h3>%s</h3><div class="sku">%d items</div>`, esc(c.Name), c.Count)
	b.WriteString(`</div></article>`)
	return b.String()
}

// CategoryChips renders the category filter strip with the active slug marked.
func (r *Renderer) CategoryChips(snap *catalog.Catalog, activeSlug string) string {
	if snap == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range snap.Categories {
		active := ""
		if c.Slug == activeSlug {
			active = " active"
		}
		fmt.Fprintf(&b, `<a class="chip%s" href="#/category/%s" data-cat="%s">%s (%d)</a>`,
			active, esc(c.Slug), esc(c.Slug), esc(c.Name), c.Count)
	}
	return b.String()
}

// AboutPage renders the static about region.
func (r *Renderer) AboutPage() string {
	return fmt.Sprintf(`<div class="pagehead"><h2>About</h2></div><div class="copy"><p>%s is a static storefront: the catalog is synced to a JSON file out-of-band and rendered here. Fast, simple, and under your control.</p></div>`,
		esc(r.storeName))
}

// ContactPage renders the contact/quote form region.
func (r *Renderer) ContactPage() string {
	return `<div class="pagehead"><h2>Contact / Quote</h2></div>` +
		`<form class="form" id="contactForm">` +
		`<div class="row"><label>Full name<input name="name" required placeholder="Jane Doe"></label>` +
		`<label>Email<input name="email" type="email" required placeholder="jane@example.com"></label></div>` +
		`<div class="row"><label>Phone (optional)<input name="phone"></label>` +
		`<label>Company (optional)<input name="company"></label></div>` +
		`<label>Message<textarea name="message"></textarea></label>` +
		`<div class="actions"><button type="submit" class="btn primary">Send email</button>` +
		`<button type="button" id="attachCart" class="btn">Attach cart items</button></div>` +
		`<p class="hint">A mail draft will open in your email app. We never store your info.</p>` +
		`</form>`
}

// AdminPage renders the debug/stats region.
func (r *Renderer) AdminPage(snap *catalog.Catalog, lastErr error) string {
	var b strings.Builder
	b.WriteString(`<div class="pagehead"><h2>Admin</h2></div><div class="copy"><dl>`)
	if snap == nil {
		b.WriteString(`<dt>Catalog</dt><dd>not loaded</dd>`)
	} else {
		fmt.Fprintf(&b, `<dt>Products</dt><dd>%d</dd>`, len(snap.Products))
		fmt.Fprintf(&b, `<dt>Categories</dt><dd>%d</dd>`, len(snap.Categories))
		fmt.Fprintf(&b, `<dt>Last synced</dt><dd>%s</dd>`, esc(snap.LoadedAt.Format("2006-01-02 15:04:05")))
	}
	if lastErr != nil {
		fmt.Fprintf(&b, `<dt>Last load error</dt><dd>%s</dd>`, esc(lastErr.Error()))
	}
	b.WriteString(`</dl></div>`)
	return b.String()
}

// CartView is the set of cart-dependent fragments refreshed after every
// cart mutation: header badge count, drawer items, formatted subtotal.
type CartView struct {
	Count    int    `json:"count"`
	Items    string `json:"items"`
	Subtotal string `json:"subtotal"`
}

// Cart renders the cart-dependent fragments from the current cart state.
func (r *Renderer) Cart(c *cart.Cart) CartView {
	view := CartView{
		Count:    c.Count(),
		Subtotal: FormatMoney(c.Subtotal()*r.set.PriceMultiplier, r.currency),
	}

	if len(c.Items) == 0 {
		view.Items = `<p class="hint">Your cart is empty.</p>`
		return view
	}

	var b strings.Builder
	for i := range c.Items {
		it := &c.Items[i]
		b.WriteString(r.safeItem(func() string { return r.cartItem(it) }))
	}
	view.Items = b.String()
	return view
}

func (r *Renderer) cartItem(it *cart.LineItem) string {
	var b strings.Builder
	b.WriteString(`<div class="item">`)
	if it.Image != "" {
		fmt.Fprintf(&b, `<img alt="" src="%s" loading="lazy">`, esc(it.Image))
	} else {
		b.WriteString(`<div></div>`)
	}
	b.WriteString(`<div>`)
	fmt.Fprintf(&b, `<div><strong>%s</strong></div>`, esc(it.Name))
	fmt.Fprintf(&b, `<div class="sku">%s</div>`, esc(it.SKU))
	fmt.Fprintf(&b, `<div>%s</div>`, r.price(it.Price))
	fmt.Fprintf(&b, `<div class="qty"><button data-dec="%s">-</button><span>%d</span><button data-inc="%s">+</button><button data-del="%s" title="Remove">&times;</button></div>`,
		esc(it.ProductID), it.Quantity, esc(it.ProductID), esc(it.ProductID))
	b.WriteString(`</div>`)
	fmt.Fprintf(&b, `<div class="line-total">%s</div>`, r.price(it.Price*float64(it.Quantity)))
	b.WriteString(`</div>`)
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
