package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation = "23505"
	erDupEntry        = 1062
)

// Dialect holds the handful of statements that differ between engines.
// Everything else is written once with `?` placeholders and rebound.
type Dialect interface {
	Name() string
	// Since returns a predicate keeping rows whose col falls in the trailing
	// window, evaluated on the database clock, and the single bind argument it needs.
	Since(col string, days int) (string, any)
	// Day buckets a timestamp column into a YYYY-MM-DD string.
	Day(col string) string
	// Returning reports whether inserts report their id through RETURNING.
	Returning() bool
	// Specs encodes a product spec list for the specs column.
	Specs(specs []string) (any, error)
	// Stamp encodes a creation time for a timestamp column.
	Stamp(t time.Time) any
	// UniqueViolation reports whether err is the driver's duplicate key error.
	UniqueViolation(err error) bool
}

// stamp is the creation time the repos write. It is rounded up to the
// microsecond, the finest precision every engine keeps, so a stored value
// never precedes the moment it was taken.
func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond).Add(time.Microsecond)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }
func (sqliteDialect) Since(col string, days int) (string, any) {
	return col + ` >= datetime('now', ?)`, fmt.Sprintf("-%d days", days)
}
func (sqliteDialect) Day(col string) string { return `strftime('%Y-%m-%d', ` + col + `)` }
func (sqliteDialect) Returning() bool      { return false }
func (sqliteDialect) Specs(specs []string) (any, error) {
	return jsonSpecs(specs)
}

// Text in the same shape as CURRENT_TIMESTAMP so datetime() comparisons hold.
func (sqliteDialect) Stamp(t time.Time) any { return t.UTC().Format("2006-01-02 15:04:05.000000") }
func (sqliteDialect) UniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"))
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Since(col string, days int) (string, any) {
	return col + ` >= NOW() - make_interval(days => ?)`, days
}
func (postgresDialect) Day(col string) string { return `to_char(` + col + `, 'YYYY-MM-DD')` }
func (postgresDialect) Returning() bool      { return true }

// pgx encodes []string natively as TEXT[].
func (postgresDialect) Specs(specs []string) (any, error) {
	if specs == nil {
		specs = []string{}
	}
	return specs, nil
}

func (postgresDialect) Stamp(t time.Time) any { return t.UTC() }
func (postgresDialect) UniqueViolation(err error) bool {
	var pe *pgconn.PgError
	return errors.As(err, &pe) && pe.Code == pgUniqueViolation
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }
func (mysqlDialect) Since(col string, days int) (string, any) {
	return col + ` >= NOW() - INTERVAL ? DAY`, days
}
func (mysqlDialect) Day(col string) string { return `DATE_FORMAT(` + col + `, '%Y-%m-%d')` }
func (mysqlDialect) Returning() bool      { return false }
func (mysqlDialect) Specs(specs []string) (any, error) {
	return jsonSpecs(specs)
}

func (mysqlDialect) Stamp(t time.Time) any { return t.UTC() }
func (mysqlDialect) UniqueViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry
}

func jsonSpecs(specs []string) (any, error) {
	if specs == nil {
		specs = []string{}
	}
	b, err := json.Marshal(specs)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func dialectFor(db *sqlx.DB) Dialect {
	switch db.DriverName() {
	case "pgx", "postgres":
		return postgresDialect{}
	case "mysql":
		return mysqlDialect{}
	default:
		return sqliteDialect{}
	}
}

// insertID runs an INSERT written with `?` placeholders and returns the new row id.
func insertID(ctx context.Context, db *sqlx.DB, d Dialect, query string, args ...any) (int64, error) {
	if d.Returning() {
		var id int64
		err := db.QueryRowxContext(ctx, db.Rebind(query+` RETURNING id`), args...).Scan(&id)
		return id, err
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
