package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
)

// Adapter maps one raw item into a record.
type Adapter[T any] func(json.RawMessage) (T, error)

// JSONAdapter decodes items with encoding/json.
func JSONAdapter[T any]() Adapter[T] {
	return func(raw json.RawMessage) (T, error) {
		var v T
		err := json.Unmarshal(raw, &v)
		return v, err
	}
}

// Lister serves one resource as typed pages and lazy sequences.
// It holds no traversal state; every traversal gets its own Paginator.
type Lister[T any] struct {
	fetcher  *Fetcher
	resource Resource
	adapt    Adapter[T]
}

// NewLister binds fetcher, resource and adapter.
func NewLister[T any](fetcher *Fetcher, resource Resource, adapt Adapter[T]) *Lister[T] {
	return &Lister[T]{
		fetcher:  fetcher,
		resource: resource,
		adapt:    adapt,
	}
}

// Resource returns the collection this lister reads.
func (l *Lister[T]) Resource() Resource {
	return l.resource
}

func (l *Lister[T]) fetch(ctx context.Context, dir Direction, cursor Cursor, params Params) (*Page[T], error) {
	raw, err := l.fetcher.FetchPage(ctx, l.resource, dir, cursor, params)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{
		Items:                  make([]T, 0, len(raw.Items)),
		NextPageStartsAfter:    raw.NextPageStartsAfter,
		PreviousPageEndsBefore: raw.PreviousPageEndsBefore,
	}
	for i, item := range raw.Items {
		v, err := l.adapt(item)
		if err != nil {
			return nil, &MalformedResponseError{
				Resource: l.resource.Name,
				Details:  fmt.Sprintf("item %d", i),
				Err:      err,
			}
		}
		page.Items = append(page.Items, v)
	}
	return page, nil
}

// FirstPage fetches the first page.
func (l *Lister[T]) FirstPage(ctx context.Context, params Params) (*Page[T], error) {
	return l.fetch(ctx, First, "", params)
}

// PageAfter fetches the page immediately following cursor.
func (l *Lister[T]) PageAfter(ctx context.Context, cursor Cursor, params Params) (*Page[T], error) {
	return l.fetch(ctx, After, cursor, params)
}

// PageBefore fetches the page immediately preceding cursor, in canonical order.
func (l *Lister[T]) PageBefore(ctx context.Context, cursor Cursor, params Params) (*Page[T], error) {
	return l.fetch(ctx, Before, cursor, params)
}

// Paginator starts a pull-style traversal.
func (l *Lister[T]) Paginator(dir Direction, cursor Cursor, params Params) *Paginator[T] {
	return &Paginator[T]{
		lister:    l,
		params:    params,
		direction: dir,
		cursor:    cursor,
	}
}

// TraversePages yields every fetched page, starting at dir/cursor.
// An empty first page is yielded too. An error is yielded once and ends the
// sequence.
func (l *Lister[T]) TraversePages(ctx context.Context, dir Direction, cursor Cursor, params Params) iter.Seq2[*Page[T], error] {
	return func(yield func(*Page[T], error) bool) {
		p := l.Paginator(dir, cursor, params)
		for {
			page, ok, err := p.NextPage(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok {
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}

// Pages yields the collection page by page from the start.
func (l *Lister[T]) Pages(ctx context.Context, params Params) iter.Seq2[*Page[T], error] {
	return l.TraversePages(ctx, First, "", params)
}

// Traverse yields items one at a time, starting at dir/cursor. Forward
// traversals (First, After) follow NextPageStartsAfter; Before follows
// PreviousPageEndsBefore. The next page is requested only once the consumer
// has taken every item of the current one.
func (l *Lister[T]) Traverse(ctx context.Context, dir Direction, cursor Cursor, params Params) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		p := l.Paginator(dir, cursor, params)
		for {
			item, ok, err := p.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// All yields the whole collection from the start.
func (l *Lister[T]) All(ctx context.Context, params Params) iter.Seq2[T, error] {
	return l.Traverse(ctx, First, "", params)
}

// Collect drains seq into a slice. On error it returns the items read so far.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Take yields at most n items of seq and stops the underlying traversal
// afterwards.
func Take[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for item, err := range seq {
			if !yield(item, err) || err != nil {
				return
			}
			taken++
			if taken >= n {
				return
			}
		}
	}
}
