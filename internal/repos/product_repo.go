package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"avotrade/internal/domain"
)

type ProductRepo struct {
	db *sqlx.DB
	d  Dialect
}

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db, d: dialectFor(db)} }

type productRow struct {
	ID          int64       `db:"id"`
	Slug        string      `db:"slug"`
	Name        string      `db:"name"`
	Image       string      `db:"image"`
	Price       string      `db:"price"`
	Description string      `db:"description"`
	Specs       specsColumn `db:"specs"`
	Badge       *string     `db:"badge"`
	Category    string      `db:"category"`
	CreatedAt   dbTime      `db:"created_at"`
}

func (r productRow) toDomain() domain.Product {
	specs := []string(r.Specs)
	if specs == nil {
		specs = []string{}
	}
	return domain.Product{
		ID:        r.ID,
		Slug:      r.Slug,
		Name:      r.Name,
		Image:     r.Image,
		Price:     r.Price,
		Desc:      r.Description,
		Specs:     specs,
		Badge:     r.Badge,
		Category:  domain.Category(r.Category),
		CreatedAt: r.CreatedAt.Time,
	}
}

const productCols = `id, slug, name, image, price, description, specs, badge, category, created_at`

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, `category = ?`)
		args = append(args, string(f.Category))
	}
	query := `SELECT ` + productCols + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY id`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, domain.Persistence("product.list", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	return r.one(ctx, `id = ?`, id)
}

func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (domain.Product, error) {
	return r.one(ctx, `slug = ?`, slug)
}

func (r *ProductRepo) one(ctx context.Context, pred string, arg any) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE `+pred), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, domain.Persistence("product.get", err)
	}
	return row.toDomain(), nil
}

// Create stores a product; an existing slug yields domain.ErrConflict.
func (r *ProductRepo) Create(ctx context.Context, in domain.NewProduct) (domain.Product, error) {
	specs, err := r.d.Specs(in.Specs)
	if err != nil {
		return domain.Product{}, domain.Persistence("product.create", err)
	}
	id, err := insertID(ctx, r.db, r.d, `
		INSERT INTO products (slug, name, image, price, description, specs, badge, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Slug, in.Name, in.Image, in.Price, in.Desc, specs, in.Badge, string(in.Category), r.d.Stamp(stamp()))
	if r.d.UniqueViolation(err) {
		return domain.Product{}, domain.ErrConflict
	}
	if err != nil {
		return domain.Product{}, domain.Persistence("product.create", err)
	}
	return r.Get(ctx, id)
}

// Delete is idempotent; the bool reports whether a row was removed.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return false, domain.Persistence("product.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.Persistence("product.delete", err)
	}
	return n > 0, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, domain.Persistence("product.count", err)
	}
	return n, nil
}
