package pagination

import (
	"context"
	"iter"
)

// Page is one decoded page: its items in response order and its pageInfo.
type Page[T any] struct {
	Items []T
	Info  PageInfo
}

// FetchFunc performs the request for the pager's current position.
type FetchFunc[T any] func(ctx context.Context) (Page[T], error)

// Walk drives p until it is done and concatenates items in fetch order.
func Walk[T any](ctx context.Context, p Pager, fetch FetchFunc[T]) ([]T, error) {
	all := []T{}
	for item, err := range All(ctx, p, fetch) {
		if err != nil {
			return nil, err
		}
		all = append(all, item)
	}
	return all, nil
}

// All yields items lazily, page by page. Every range over the sequence resets
// p first, so the sequence can be consumed more than once. Iteration stops at
// the first error, which is yielded with a zero item.
func All[T any](ctx context.Context, p Pager, fetch FetchFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		p.Reset()
		for p.HasNext() {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			page, err := fetch(ctx)
			if err != nil {
				yield(zero, err)
				return
			}
			if err := p.Update(page.Info); err != nil {
				yield(zero, err)
				return
			}

			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}
