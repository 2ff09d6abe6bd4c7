package utils

import (
	"math"
	"strconv"
	"strings"
)

// Paginator 把有序集合切成固定大小的页
type Paginator struct {
	Count   int64
	PerPage int
}

func NewPaginator(count int64, perPage int) *Paginator {
	if perPage < 1 {
		perPage = 1
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages 总页数，空集合也有一页
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return int(math.Ceil(float64(p.Count) / float64(p.PerPage)))
}

// Number 解析页码：不是整数返回第 1 页，越界（包括小于 1）返回最后一页
func (p *Paginator) Number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if last := p.NumPages(); n < 1 || n > last {
		return last
	}
	return n
}

func (p *Paginator) Offset(number int) int {
	return (number - 1) * p.PerPage
}

// PageRange 1..NumPages，供模板渲染页码
func (p *Paginator) PageRange() []int {
	pages := make([]int, p.NumPages())
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

type Page[T any] struct {
	Items     []T
	Number    int
	Paginator *Paginator
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.Paginator.NumPages()
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page[T]) NextPageNumber() int {
	return p.Number + 1
}

func (p *Page[T]) PreviousPageNumber() int {
	return p.Number - 1
}
