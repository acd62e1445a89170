package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Catalog {
	return NewSnapshot([]Product{
		{ID: "1", Name: "Anvil", Category: "A", CategorySlug: "a", Price: 30, Description: "heavy tool"},
		{ID: "2", Name: "Apron", Category: "A", CategorySlug: "a", Price: 10, SKU: "APR-1"},
		{ID: "3", Name: "Bucket", Category: "B", CategorySlug: "b", Price: 10},
	})
}

func TestVisibleEmptyQueryReturnsAllInOrder(t *testing.T) {
	got := Visible(testSnapshot(), ViewState{Query: "", Category: "", Sort: SortFeatured})

	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "3", got[2].ID)
}

func TestVisibleCategoryIsolation(t *testing.T) {
	got := Visible(testSnapshot(), ViewState{Category: Slug("A")})

	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "a", p.CategorySlug)
	}
}

func TestVisibleFiltersAreConjunctive(t *testing.T) {
	c := testSnapshot()

	got := Visible(c, ViewState{Query: "bucket", Category: "a"})
	assert.Empty(t, got, "query matches B-category product, category filter excludes it")

	got = Visible(c, ViewState{Query: "apron", Category: "a"})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestVisibleQueryMatchesAllTextFields(t *testing.T) {
	c := testSnapshot()

	assert.Len(t, Visible(c, ViewState{Query: "HEAVY"}), 1, "description, case-insensitive")
	assert.Len(t, Visible(c, ViewState{Query: "apr-1"}), 1, "sku")
	assert.Len(t, Visible(c, ViewState{Query: "b"}), 2, "name and category")
	assert.Empty(t, Visible(c, ViewState{Query: "zzz"}))
}

func TestVisibleSortModes(t *testing.T) {
	c := testSnapshot()

	byNameAsc := Visible(c, ViewState{Sort: SortNameAsc})
	assert.Equal(t, []string{"Anvil", "Apron", "Bucket"}, names(byNameAsc))

	byNameDesc := Visible(c, ViewState{Sort: SortNameDesc})
	assert.Equal(t, []string{"Bucket", "Apron", "Anvil"}, names(byNameDesc))

	byPriceDesc := Visible(c, ViewState{Sort: SortPriceDesc})
	assert.Equal(t, "Anvil", byPriceDesc[0].Name)
}

func TestVisiblePriceSortIsStable(t *testing.T) {
	got := Visible(testSnapshot(), ViewState{Sort: SortPriceAsc})

	// Apron and Bucket share a price; catalog order breaks the tie.
	require.Len(t, got, 3)
	assert.Equal(t, "Apron", got[0].Name)
	assert.Equal(t, "Bucket", got[1].Name)
	assert.Equal(t, "Anvil", got[2].Name)
}

func TestVisibleDoesNotMutateCatalog(t *testing.T) {
	c := testSnapshot()
	_ = Visible(c, ViewState{Sort: SortNameDesc})

	assert.Equal(t, "Anvil", c.Products[0].Name)
	assert.Equal(t, "Bucket", c.Products[2].Name)
}

func TestVisibleNilCatalog(t *testing.T) {
	assert.Nil(t, Visible(nil, ViewState{}))
}

func names(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
