package services

import (
	"context"
	"strconv"

	"gorm.io/gorm"
)

const (
	PostsPerPage    = 10
	CommentsPerPage = 5
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	PerPage  int
	Count    int64
}

func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }

func (p *Page[T]) HasOtherPages() bool { return p.NumPages > 1 }

func (p *Page[T]) PreviousPageNumber() int { return p.Number - 1 }

func (p *Page[T]) NextPageNumber() int { return p.Number + 1 }

// PageRange lists every page number, for rendering the paginator.
func (p *Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// PageNumber resolves a raw ?page= value the forgiving way: anything that
// is not a positive integer means the first page, anything past the end
// means the last one.
func PageNumber(raw string, numPages int) int {
	if numPages < 1 {
		numPages = 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	if n > numPages {
		return numPages
	}
	return n
}

// Paginate counts the rows matched by filter and loads the requested page.
func Paginate[T any](ctx context.Context, db *gorm.DB, filter func(*gorm.DB) *gorm.DB, order string, rawPage string, perPage int, preload ...string) (*Page[T], error) {
	if filter == nil {
		filter = func(tx *gorm.DB) *gorm.DB { return tx }
	}

	var total int64
	if err := db.WithContext(ctx).Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
		return nil, err
	}

	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages == 0 {
		numPages = 1
	}
	number := PageNumber(rawPage, numPages)

	query := db.WithContext(ctx).Scopes(filter)
	for _, rel := range preload {
		query = query.Preload(rel)
	}

	items := make([]T, 0, perPage)
	if err := query.Order(order).Limit(perPage).Offset((number - 1) * perPage).Find(&items).Error; err != nil {
		return nil, err
	}

	return &Page[T]{
		Items:    items,
		Number:   number,
		NumPages: numPages,
		PerPage:  perPage,
		Count:    total,
	}, nil
}
