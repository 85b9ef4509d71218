// Package db wraps the MySQL-protocol connection used by the server backend.
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// DB is a connection pool to a MySQL-compatible server.
type DB struct {
	*sql.DB
	Addr string
}

// Open parses dsn and opens a pool. No connection is made until first use.
func Open(dsn string) (*DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "mysql connector")
	}
	return &DB{DB: sql.OpenDB(connector), Addr: cfg.Addr}, nil
}

// Version returns the server version string.
func (d *DB) Version(ctx context.Context) (string, error) {
	var v string
	if err := d.QueryRowContext(ctx, "SELECT VERSION()").Scan(&v); err != nil {
		return "", errors.Wrap(err, "query version")
	}
	return v, nil
}
