package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"avotrade/internal/domain"
)

type VisitRepo struct {
	db *sqlx.DB
	d  Dialect
}

func NewVisitRepo(db *sqlx.DB) *VisitRepo { return &VisitRepo{db: db, d: dialectFor(db)} }

func (r *VisitRepo) Create(ctx context.Context, path string, userAgent *string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO page_visits (path, user_agent) VALUES (?, ?)`), path, userAgent)
	return domain.Persistence("visit.create", err)
}

func (r *VisitRepo) CountSince(ctx context.Context, days int) (int64, error) {
	pred, arg := r.d.Since("visited_at", days)
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM page_visits WHERE `+pred), arg); err != nil {
		return 0, domain.Persistence("visit.count", err)
	}
	return n, nil
}

// ByDaySince groups visits in the window by calendar day, oldest first.
func (r *VisitRepo) ByDaySince(ctx context.Context, days int) ([]domain.DayCount, error) {
	pred, arg := r.d.Since("visited_at", days)
	day := r.d.Day("visited_at")
	query := `SELECT ` + day + ` AS visit_day, COUNT(*) AS visit_count
		FROM page_visits
		WHERE ` + pred + `
		GROUP BY ` + day + `
		ORDER BY visit_day`

	var rows []struct {
		Day   string `db:"visit_day"`
		Count int64  `db:"visit_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), arg); err != nil {
		return nil, domain.Persistence("visit.by_day", err)
	}
	out := make([]domain.DayCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DayCount{Date: row.Day, Count: row.Count})
	}
	return out, nil
}
