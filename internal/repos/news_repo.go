package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"avotrade/internal/domain"
)

type NewsRepo struct{ db *sqlx.DB }

func NewNewsRepo(db *sqlx.DB) *NewsRepo { return &NewsRepo{db: db} }

type newsRow struct {
	ID      int64  `db:"id"`
	Date    string `db:"published_on"`
	Tag     string `db:"tag"`
	Title   string `db:"title"`
	Excerpt string `db:"excerpt"`
}

// List returns every news item, most recently inserted first.
func (r *NewsRepo) List(ctx context.Context) ([]domain.MarketNews, error) {
	var rows []newsRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, published_on, tag, title, excerpt FROM market_news ORDER BY id DESC`); err != nil {
		return nil, domain.Persistence("news.list", err)
	}
	out := make([]domain.MarketNews, 0, len(rows))
	for _, n := range rows {
		out = append(out, domain.MarketNews{ID: n.ID, Date: n.Date, Tag: n.Tag, Title: n.Title, Excerpt: n.Excerpt})
	}
	return out, nil
}
