// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/VA7DBI/bookstack-testtoken/config"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the bind-parameter style of the underlying driver.
type Dialect int

const (
	MySQL Dialect = iota
	Postgres
	SQLite
)

// DB is a connection to the host application's database.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// New wraps an already opened handle. Tests use it with sqlmock.
func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// DSN returns the driver name, connection string and dialect for cfg.
func DSN(cfg *config.Config) (string, string, Dialect, error) {
	switch cfg.Database.Driver {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.Database.User
		mc.Passwd = cfg.Database.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port)
		mc.DBName = cfg.Database.DBName
		mc.ParseTime = true
		return "mysql", mc.FormatDSN(), MySQL, nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.DBName,
			cfg.Database.SSLMode,
		)
		return "postgres", dsn, Postgres, nil
	case "sqlite":
		return "sqlite", cfg.Database.Path, SQLite, nil
	default:
		return "", "", 0, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	driver, dsn, dialect, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s connection failed: %w", driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s ping failed: %w", driver, err)
	}

	return New(db, dialect), nil
}

// Rebind rewrites '?' placeholders into the dialect's style.
func (d *DB) Rebind(query string) string {
	if d.Dialect != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
