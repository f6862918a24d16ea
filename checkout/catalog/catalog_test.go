package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.List(Filter{})
	assert.Len(t, all, 15)
	assert.Equal(t, []string{"Laptops", "Smartphones", "Headphones", "Tablets", "Cameras", "Smartwatches"}, c.Categories())

	p, ok := c.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, `MacBook Pro 16"`, p.Name)
	assert.True(t, decimal.NewFromInt(2499).Equal(p.Price))

	ref := p.Ref()
	assert.Equal(t, "1", ref.ID)
	assert.True(t, p.Price.Equal(ref.Price))

	_, ok = c.Lookup("99")
	assert.False(t, ok)
}

func TestList_Category(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"5", "6", "15"}, ids(c.List(Filter{Category: "Headphones"})))
	assert.Len(t, c.List(Filter{Category: AllCategories}), 15)
	assert.Empty(t, c.List(Filter{Category: "Drones"}))
}

func TestList_Search(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	// name, category and description all match, case-insensitively
	assert.Equal(t, []string{"9", "10"}, ids(c.List(Filter{Search: "MIRRORLESS"})))
	assert.Equal(t, []string{"11", "12"}, ids(c.List(Filter{Search: "smartwatch"})))
	assert.Equal(t, []string{"1", "7"}, ids(c.List(Filter{Search: "m2"})))
	assert.Equal(t, []string{"4", "8", "12"}, ids(c.List(Filter{Search: "samsung", Category: AllCategories})))
	assert.Equal(t, []string{"4"}, ids(c.List(Filter{Search: "samsung", Category: "Smartphones"})))
}

func TestList_Sort(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	low := c.List(Filter{Category: "Headphones", Sort: SortPriceLow})
	assert.Equal(t, []string{"6", "15", "5"}, ids(low))

	high := c.List(Filter{Category: "Cameras", Sort: SortPriceHigh})
	assert.Equal(t, []string{"10", "9"}, ids(high))

	rated := c.List(Filter{Category: "Laptops", Sort: SortRating})
	assert.Equal(t, []string{"1", "2", "13"}, ids(rated))

	// equal ratings keep catalog order
	phones := c.List(Filter{Category: "Smartphones", Sort: SortRating})
	assert.Equal(t, []string{"3", "4", "14"}, ids(phones))

	assert.Equal(t, []string{"1", "2", "13"}, ids(c.List(Filter{Category: "Laptops", Sort: "bogus"})))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("products: [{id: '1', price: 'free'}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("products: [{id: '1', price: '1'}, {id: '1', price: '2'}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("products: [{name: x, price: '1'}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("products: [{id: '1', price: '-1'}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("products: {"))
	assert.Error(t, err)
}
