package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatorNumPages(t *testing.T) {
	tests := []struct {
		count   int64
		perPage int
		want    int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{17, 10, 2},
		{31, 10, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPaginator(tt.count, tt.perPage).NumPages(), "count=%d", tt.count)
	}
}

func TestPaginatorNumber(t *testing.T) {
	p := NewPaginator(17, 10)

	assert.Equal(t, 1, p.Number(""))
	assert.Equal(t, 1, p.Number("abc"))
	assert.Equal(t, 1, p.Number("1.5"))
	assert.Equal(t, 2, p.Number("0"))
	assert.Equal(t, 2, p.Number("-4"))
	assert.Equal(t, 1, p.Number(" 1 "))
	assert.Equal(t, 2, p.Number("2"))
	assert.Equal(t, 2, p.Number("99"))
}

func TestPaginatorOffset(t *testing.T) {
	p := NewPaginator(17, 10)
	assert.Equal(t, 0, p.Offset(1))
	assert.Equal(t, 10, p.Offset(2))
	assert.Equal(t, []int{1, 2}, p.PageRange())
}

func TestPageNavigation(t *testing.T) {
	p := NewPaginator(25, 10)

	first := &Page[int]{Number: 1, Paginator: p}
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, 2, first.NextPageNumber())

	last := &Page[int]{Number: 3, Paginator: p}
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())
	assert.Equal(t, 2, last.PreviousPageNumber())

	single := &Page[int]{Number: 1, Paginator: NewPaginator(3, 10)}
	assert.False(t, single.HasOtherPages())
}
