package persistent

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
	_ "modernc.org/sqlite"
)

const sqlitePrefix = "sqlite:"

type Config struct {
	// postgres://..., postgresql://... or sqlite:<path>. sqlite::memory: opens a
	// private in-memory database.
	DSN string
	// Postgres database/sql driver: "pg" (bun pgdriver, default) or "pgx".
	Driver  string
	Verbose bool
}

func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	var (
		sqldb   *sql.DB
		dialect schema.Dialect
		err     error
	)
	if strings.HasPrefix(cfg.DSN, sqlitePrefix) {
		sqldb, err = sql.Open("sqlite", sqliteDsn(cfg.DSN))
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		// in-memory databases live per connection and sqlite serializes writers anyway
		sqldb.SetMaxOpenConns(1)
		dialect = sqlitedialect.New()
	} else {
		driver := cfg.Driver
		if driver == "" {
			driver = "pg"
		}
		if driver != "pg" && driver != "pgx" {
			return nil, fmt.Errorf("unknown postgres driver %q", driver)
		}
		sqldb, err = sql.Open(driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open pg database: %w", err)
		}
		dialect = pgdialect.New()
	}

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := bun.NewDB(sqldb, dialect)
	if cfg.Verbose || os.Getenv("DB_VERBOSE") == "true" {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

func sqliteDsn(dsn string) string {
	path := strings.TrimPrefix(strings.TrimPrefix(dsn, sqlitePrefix), "//")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Running integration tests requires real pg db instance, but we
// don't have enough time to start db for every test so we will start db once
// (see testenv) and then pass datasource to as many tests as we want.

func OpenTest(ctx context.Context) *bun.DB {
	db, err := Open(ctx, Config{DSN: TestEnvDsn()})
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open test database.")
	}
	return db
}

func TestEnvDsn() string {
	return os.Getenv("PGDB_DSN")
}

func SetTestEnvDsn(dsn string) {
	os.Setenv("PGDB_DSN", dsn)
}
