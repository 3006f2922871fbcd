package pagination

import (
	"context"
)

// Paginator walks a collection one page at a time on demand.
// It is not safe for concurrent use; create one per traversal.
type Paginator[T any] struct {
	lister    *Lister[T]
	params    Params
	direction Direction
	cursor    Cursor

	page      *Page[T]
	pos       int
	exhausted bool
	err       error
}

// Next returns the next item, fetching a page when the buffered one is used
// up. It returns ok=false once the traversal is complete. After an error every
// call returns the same error without I/O.
func (p *Paginator[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		if p.page != nil && p.pos < len(p.page.Items) {
			item := p.page.Items[p.pos]
			p.pos++
			return item, true, nil
		}

		page, ok, err := p.NextPage(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		p.page, p.pos = page, 0
	}
}

// NextPage fetches the next page of the traversal. Do not mix with Next on
// the same Paginator: buffered items are dropped.
func (p *Paginator[T]) NextPage(ctx context.Context) (*Page[T], bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	if p.exhausted {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		p.err = err
		return nil, false, err
	}

	page, err := p.lister.fetch(ctx, p.direction, p.cursor, p.params)
	if err != nil {
		p.err = err
		return nil, false, err
	}

	var next Cursor
	if p.direction == Before {
		next = page.PreviousPageEndsBefore
	} else {
		next = page.NextPageStartsAfter
	}

	switch {
	case next == "" || len(page.Items) == 0:
		p.exhausted = true
	case p.direction != First && next == p.cursor:
		p.err = &MalformedResponseError{
			Resource: p.lister.resource.Name,
			Details:  "cursor " + string(next) + " did not advance",
		}
		p.exhausted = true
	default:
		if p.direction == First {
			p.direction = After
		}
		p.cursor = next
	}

	return page, true, nil
}

// Err returns the error that ended the traversal, if any.
func (p *Paginator[T]) Err() error {
	return p.err
}
