package services

import (
	"context"

	"avotrade/internal/domain"
	"avotrade/internal/search"
)

type NewsService struct {
	News NewsStore
}

func NewNewsService(n NewsStore) *NewsService { return &NewsService{News: n} }

// List returns market updates, newest first, narrowed by term.
func (s *NewsService) List(ctx context.Context, term string) ([]domain.MarketNews, error) {
	items, err := s.News.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(items, term, domain.MarketNews.SearchFields), nil
}
