package catalog

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID synthesis modes for records whose source supplies no id.
const (
	IDModeRandom = "random"
	IDModeHash   = "hash"
)

// Product is one normalized catalog record. Immutable once loaded; a reload
// replaces the whole catalog snapshot.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku,omitempty"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	CategorySlug string   `json:"categorySlug"`
	Images       []string `json:"images,omitempty"`
	Logo         string   `json:"logo,omitempty"`
	Description  string   `json:"description,omitempty"`
	PaymentURL   string   `json:"payment_url,omitempty"`
}

// FirstImage returns the primary image, or "" when the product has none.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Category is derived from the loaded products and recomputed on every load.
// Hero is the first image of the first member encountered in catalog order.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
	Hero  string `json:"hero,omitempty"`
}

// Catalog is an immutable snapshot of the active products and their derived
// category index.
type Catalog struct {
	Products   []Product
	Categories []Category
	LoadedAt   time.Time

	byID map[string]int
}

// Find returns the product with the given id, or nil.
func (c *Catalog) Find(id string) *Product {
	if c == nil {
		return nil
	}
	if i, ok := c.byID[id]; ok {
		return &c.Products[i]
	}
	return nil
}

// rawProduct mirrors one record of the upstream products JSON. Field types
// are loose where the sync output has been observed to vary.
type rawProduct struct {
	ID          any     `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Price       float64 `json:"price"`
	Image       any     `json:"image"`
	Images      any     `json:"images"`
	Logo        any     `json:"logo"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	PaymentURL  string  `json:"payment_url"`
	Active      *bool   `json:"active"`
}

// newCatalog normalizes raw records into a snapshot: records without a name
// and records with active == false are dropped here, not at display time.
func newCatalog(raw []rawProduct, idMode string) *Catalog {
	products := make([]Product, 0, len(raw))
	for _, r := range raw {
		if p, ok := normalize(r, idMode); ok {
			products = append(products, p)
		}
	}
	return NewSnapshot(products)
}

// NewSnapshot builds a catalog snapshot from already-normalized products,
// deriving the category index and id lookup.
func NewSnapshot(products []Product) *Catalog {
	c := &Catalog{
		Products:   products,
		Categories: buildCategories(products),
		LoadedAt:   time.Now(),
		byID:       make(map[string]int, len(products)),
	}
	for i := range products {
		if _, dup := c.byID[products[i].ID]; !dup {
			c.byID[products[i].ID] = i
		}
	}
	return c
}

func normalize(r rawProduct, idMode string) (Product, bool) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Product{}, false
	}
	if r.Active != nil && !*r.Active {
		return Product{}, false
	}

	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = "Uncategorized"
	}

	price := r.Price
	if price < 0 {
		price = 0
	}

	p := Product{
		ID:           productID(r, idMode),
		Name:         name,
		SKU:          strings.TrimSpace(r.SKU),
		Price:        price,
		Category:     category,
		CategorySlug: Slug(category),
		Images:       imageList(r.Images, r.Image),
		Logo:         FreshMediaURL(firstString(r.Logo)),
		Description:  r.Description,
		PaymentURL:   r.PaymentURL,
	}
	return p, true
}

// productID prefers the source id, then the SKU, then a synthesized value.
func productID(r rawProduct, idMode string) string {
	if id := stringValue(r.ID); id != "" {
		return id
	}
	if sku := strings.TrimSpace(r.SKU); sku != "" {
		return sku
	}
	if idMode == IDModeHash {
		h := fnv.New64a()
		h.Write([]byte(r.Name))
		h.Write([]byte{'|'})
		h.Write([]byte(r.SKU))
		return fmt.Sprintf("p-%016x", h.Sum64())
	}
	return uuid.NewString()
}

// imageList collapses the legacy singular "image" field into images[0] when
// the "images" array is absent.
func imageList(images, image any) []string {
	var out []string
	switch v := images.(type) {
	case []any:
		for _, item := range v {
			if s := FreshMediaURL(stringValue(item)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := FreshMediaURL(v); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		if s := FreshMediaURL(firstString(image)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func buildCategories(products []Product) []Category {
	index := make(map[string]*Category)
	order := make([]string, 0)
	for i := range products {
		p := &products[i]
		entry, ok := index[p.CategorySlug]
		if !ok {
			entry = &Category{Name: p.Category, Slug: p.CategorySlug, Hero: p.FirstImage()}
			index[p.CategorySlug] = entry
			order = append(order, p.CategorySlug)
		}
		entry.Count++
	}

	cats := make([]Category, 0, len(order))
	for _, slug := range order {
		cats = append(cats, *index[slug])
	}
	sort.Slice(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
	return cats
}

// Slug normalizes a category name into a URL-safe identifier: lowercase,
// runs of non-alphanumerics become a single hyphen, leading/trailing hyphens
// trimmed. Equivalent spellings collapse to the same slug.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	if b.Len() == 0 {
		return "uncategorized"
	}
	return b.String()
}

// UnSlug renders a slug back into a display title ("home-garden" -> "Home Garden").
func UnSlug(s string) string {
	parts := strings.Split(s, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// FreshMediaURL appends a short freshness token to media URLs on hosts that
// serve expiring or aggressively cached links, so a stale CDN copy is never
// shown after a re-sync.
func FreshMediaURL(u string) string {
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "amazonaws.com") && !strings.Contains(u, "notion-static") && !strings.Contains(u, "notion.so") {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return u + sep + "t=" + ms
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func firstString(v any) string {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		return stringValue(list[0])
	}
	return stringValue(v)
}
