package repos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB connects to the configured engine, applies pending migrations and
// seeds the catalogue and market news when those tables are empty.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := Seed(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Connect opens and pings the database without touching the schema.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case "sqlite", "":
		db, err = sqlx.Open("sqlite", dsn)
		if err == nil {
			// One connection keeps :memory: databases shared and pragmas applied.
			db.SetMaxOpenConns(1)
		}
	case "postgres":
		db, err = sqlx.Open("pgx", dsn)
	case "mysql":
		var normalized string
		if normalized, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
		db, err = sqlx.Open("mysql", normalized)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if dialectFor(db).Name() == "sqlite" {
		for _, p := range []string{
			`PRAGMA foreign_keys = ON`,
			`PRAGMA busy_timeout = 5000`,
		} {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, err
			}
		}
		if !strings.Contains(dsn, ":memory:") {
			if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL`); err != nil {
				db.Close()
				return nil, err
			}
		}
	}
	return db, nil
}

// mysqlDSN pins the session to UTC so NOW() and CURRENT_TIMESTAMP agree with
// the UTC values the driver reads and writes.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["time_zone"] = "'+00:00'"
	return cfg.FormatDSN(), nil
}
