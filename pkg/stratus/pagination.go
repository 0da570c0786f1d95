package stratus

import (
	"context"
	"errors"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
)

// PaginationClient is the minimal listing surface the pagination helpers
// need. Every resource client that lists under a fixed path satisfies it
// through a thin adapter.
type PaginationClient[T any] interface {
	ListWithPath(ctx context.Context, path string, params *QueryParams) (*ListResponse[T], error)
}

// PaginationOptions tunes the page-fetching helpers.
type PaginationOptions struct {
	// PageSize is the per_page value used for each request.
	PageSize int
	// MaxPages caps how many pages are fetched; 0 means no cap.
	MaxPages int
}

// DefaultPaginationOptions returns the options used when none are supplied.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.StandardPageSize,
		MaxPages: constants.MaxPages,
	}
}

// PaginationIterator walks a paginated collection item by item, fetching
// pages lazily.
type PaginationIterator[T any] struct {
	ctx    context.Context
	client PaginationClient[T]
	path   string
	params *QueryParams

	buffer []T
	index  int
	page   int
	done   bool
}

// NewPaginationIterator creates an iterator over the collection at path.
// The params' Page field is managed by the iterator; other fields are
// passed through on every request.
func NewPaginationIterator[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams) *PaginationIterator[T] {
	if params == nil {
		params = NewQueryParams()
	}

	return &PaginationIterator[T]{
		ctx:    ctx,
		client: client,
		path:   path,
		params: params,
	}
}

// HasNext reports whether another item may be available. It never performs
// I/O; a final empty page is only discovered by Next returning
// ErrNoMoreItems.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.index < len(it.buffer) {
		return true
	}

	return !it.done
}

// Next returns the next item, fetching the next page when the current one
// is exhausted. It returns ErrNoMoreItems once the collection ends.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if it.index >= len(it.buffer) {
		if it.done {
			return zero, ErrNoMoreItems
		}

		err := it.fetchNextPage()
		if err != nil {
			return zero, err
		}

		if len(it.buffer) == 0 {
			return zero, ErrNoMoreItems
		}
	}

	item := it.buffer[it.index]
	it.index++

	return item, nil
}

// All drains the iterator and returns every remaining item.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to every remaining item, stopping on the first error.
func (it *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

func (it *PaginationIterator[T]) fetchNextPage() error {
	it.page++
	it.params.Page = it.page

	resp, err := it.client.ListWithPath(it.ctx, it.path, it.params)
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", it.page, err)
	}

	it.buffer = resp.Result
	it.index = 0

	if it.page >= resp.Info.TotalPages || len(resp.Result) == 0 {
		it.done = true
	}

	return nil
}

// FetchAllPages collects the whole collection at path into a single slice.
func FetchAllPages[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams, options *PaginationOptions) ([]T, error) {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	if params == nil {
		params = NewQueryParams()
	}

	if options.PageSize > 0 {
		params.PerPage = options.PageSize
	}

	var all []T

	for page := 1; ; page++ {
		if options.MaxPages > 0 && page > options.MaxPages {
			break
		}

		params.Page = page

		resp, err := client.ListWithPath(ctx, path, params)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, resp.Result...)

		if page >= resp.Info.TotalPages || len(resp.Result) == 0 {
			break
		}
	}

	return all, nil
}

// PageResult carries one page of a streamed collection.
type PageResult[T any] struct {
	Items []T
	Page  int
	Err   error
}

// StreamPages fetches the collection page by page, delivering each page on
// the returned channel. The channel is closed after the final page or the
// first error; cancelling ctx stops the stream.
func StreamPages[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	if params == nil {
		params = NewQueryParams()
	}

	if options.PageSize > 0 {
		params.PerPage = options.PageSize
	}

	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		for page := 1; ; page++ {
			if options.MaxPages > 0 && page > options.MaxPages {
				return
			}

			params.Page = page

			resp, err := client.ListWithPath(ctx, path, params)
			if err != nil {
				select {
				case results <- PageResult[T]{Page: page, Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: resp.Result, Page: page}:
			case <-ctx.Done():
				return
			}

			if page >= resp.Info.TotalPages || len(resp.Result) == 0 {
				return
			}
		}
	}()

	return results
}
