package client

import (
	"context"
	"sync"

	"avotrade/internal/domain"
	"avotrade/internal/search"
)

// FilteredView keeps a list narrowed to the search store's current term.
// Any number of views may follow the same store; they all derive the same term.
type FilteredView[T any] struct {
	fields func(T) []string

	mu      sync.RWMutex
	all     []T
	term    string
	visible []T

	cancel func()
}

func NewFilteredView[T any](store *search.Store, items []T, fields func(T) []string) *FilteredView[T] {
	v := &FilteredView[T]{fields: fields, all: items}
	v.apply(store.Term())
	v.cancel = store.Subscribe(func(s search.Snapshot) { v.apply(s.Term) })
	return v
}

func (v *FilteredView[T]) apply(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.term = term
	v.visible = search.Filter(v.all, term, v.fields)
}

// Reset swaps the underlying items, e.g. after a refetch, and reapplies the term.
func (v *FilteredView[T]) Reset(items []T) {
	v.mu.Lock()
	v.all = items
	term := v.term
	v.mu.Unlock()
	v.apply(term)
}

func (v *FilteredView[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]T, len(v.visible))
	copy(out, v.visible)
	return out
}

func (v *FilteredView[T]) Term() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.term
}

// Close stops following the store.
func (v *FilteredView[T]) Close() { v.cancel() }

// Views match the same fields the server filters on.
var (
	ProductFields = domain.Product.SearchFields
	EnquiryFields = domain.Enquiry.SearchFields
	NewsFields    = domain.MarketNews.SearchFields
)

// CatalogueView loads the full catalogue once and filters it locally as the term changes.
func (c *Client) CatalogueView(ctx context.Context, store *search.Store) (*FilteredView[domain.Product], error) {
	products, err := c.Products(ctx, "", "")
	if err != nil {
		return nil, err
	}
	return NewFilteredView(store, products, ProductFields), nil
}

func (c *Client) NewsView(ctx context.Context, store *search.Store) (*FilteredView[domain.MarketNews], error) {
	items, err := c.News(ctx, "")
	if err != nil {
		return nil, err
	}
	return NewFilteredView(store, items, NewsFields), nil
}
