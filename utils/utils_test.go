package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, p := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 5, p.TotalItems)

	page, _ = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, page)

	page, _ = Paginate(items, 9, 2)
	assert.Empty(t, page)

	assert.NotPanics(t, func() {
		page, _ = Paginate([]int{1, 2, 3}, math.MaxInt/50+2, 50)
	})
	assert.Empty(t, page)

	page, _ = Paginate(items, 1, math.MaxInt)
	assert.Equal(t, items, page)

	page, _ = Paginate([]int{}, 1, 10)
	assert.Empty(t, page)

	page, p = Paginate(items, 0, 0)
	assert.Equal(t, items, page)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 50, p.PageSize)
}
