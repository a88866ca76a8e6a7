package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"avotrade/internal/domain"
)

type EnquiryRepo struct {
	db *sqlx.DB
	d  Dialect
}

func NewEnquiryRepo(db *sqlx.DB) *EnquiryRepo { return &EnquiryRepo{db: db, d: dialectFor(db)} }

type enquiryRow struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Email     string  `db:"email"`
	Company   string  `db:"company"`
	Type      string  `db:"type"`
	Product   *string `db:"product"`
	Quantity  *string `db:"quantity"`
	Message   *string `db:"message"`
	Status    string  `db:"status"`
	CreatedAt dbTime  `db:"created_at"`
}

func (r enquiryRow) toDomain() domain.Enquiry {
	return domain.Enquiry{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Company:   r.Company,
		Type:      domain.EnquiryType(r.Type),
		Product:   r.Product,
		Quantity:  r.Quantity,
		Message:   r.Message,
		Status:    domain.EnquiryStatus(r.Status),
		CreatedAt: r.CreatedAt.Time,
	}
}

const enquiryCols = `id, name, email, company, type, product, quantity, message, status, created_at`

// Create inserts a lead with status new. The database assigns the id; created_at
// is stamped here at microsecond precision.
func (r *EnquiryRepo) Create(ctx context.Context, in domain.NewEnquiry) (domain.Enquiry, error) {
	id, err := insertID(ctx, r.db, r.d, `
		INSERT INTO enquiries (name, email, company, type, product, quantity, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Email, in.Company, string(in.Type), in.Product, in.Quantity, in.Message, string(domain.StatusNew),
		r.d.Stamp(stamp()))
	if err != nil {
		return domain.Enquiry{}, domain.Persistence("enquiry.create", err)
	}
	return r.Get(ctx, id)
}

func (r *EnquiryRepo) Get(ctx context.Context, id int64) (domain.Enquiry, error) {
	var row enquiryRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+enquiryCols+` FROM enquiries WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Enquiry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Enquiry{}, domain.Persistence("enquiry.get", err)
	}
	return row.toDomain(), nil
}

// List returns leads newest first. A zero limit means no cap; f.Search is not interpreted here.
func (r *EnquiryRepo) List(ctx context.Context, f domain.EnquiryFilter) ([]domain.Enquiry, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(f.Status))
	}

	query := `SELECT ` + enquiryCols + ` FROM enquiries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var rows []enquiryRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, domain.Persistence("enquiry.list", err)
	}
	out := make([]domain.Enquiry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpdateStatus moves a lead to status in one guarded statement so concurrent
// operators cannot slip an illegal transition in between a read and a write.
func (r *EnquiryRepo) UpdateStatus(ctx context.Context, id int64, status domain.EnquiryStatus) (domain.Enquiry, error) {
	sources := domain.SourcesFor(status)
	from := make([]string, 0, len(sources))
	for _, s := range sources {
		from = append(from, string(s))
	}

	query, args, err := sqlx.In(`UPDATE enquiries SET status = ? WHERE id = ? AND status IN (?)`, string(status), id, from)
	if err != nil {
		return domain.Enquiry{}, domain.Persistence("enquiry.update", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return domain.Enquiry{}, domain.Persistence("enquiry.update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Enquiry{}, domain.Persistence("enquiry.update", err)
	}

	cur, err := r.Get(ctx, id)
	if err != nil {
		return domain.Enquiry{}, err
	}
	if n == 0 && cur.Status != status {
		return cur, domain.ErrInvalidTransition
	}
	return cur, nil
}

// Delete removes a lead permanently. Missing ids are not an error; the bool
// reports whether a row was actually removed.
func (r *EnquiryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM enquiries WHERE id = ?`), id)
	if err != nil {
		return false, domain.Persistence("enquiry.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.Persistence("enquiry.delete", err)
	}
	return n > 0, nil
}

// CountSince counts leads created inside the trailing window.
func (r *EnquiryRepo) CountSince(ctx context.Context, days int) (int64, error) {
	pred, arg := r.d.Since("created_at", days)
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM enquiries WHERE `+pred), arg); err != nil {
		return 0, domain.Persistence("enquiry.count", err)
	}
	return n, nil
}
