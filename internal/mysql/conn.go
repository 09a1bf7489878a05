// Package mysql opens single-use connections to a MySQL server and executes
// statement batches over them.
//
// Connections here are deliberately not pooled: the gateway serves one
// synchronous request at a time, and every request opens its own connection,
// uses it for exactly one batch or introspection call, and closes it.
package mysql

import (
	"context"
	"database/sql"
	"net"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/koustreak/sqlgate/internal/config"
	"github.com/koustreak/sqlgate/internal/errs"
)

// Conn is a single-use connection to a MySQL server, optionally scoped to a
// database. It is owned by the request that opened it and must be closed on
// every exit path.
type Conn struct {
	db *sql.DB
}

// Open connects using a merged parameter set and verifies the connection
// with a ping. When params carries a database name the connection is scoped
// to it, so an unknown database surfaces here, not at statement time.
//
// Every failure mode (unreachable host, rejected credentials, unknown
// database) is returned as a single uniform ErrKindConnectionFailed error
// carrying the driver diagnostic.
func Open(ctx context.Context, params config.Params) (*Conn, error) {
	db, err := sql.Open("mysql", buildDSN(params))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid connection parameters", err)
	}

	// One caller, one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "cannot connect to mysql", err)
	}

	return &Conn{db: db}, nil
}

// buildDSN constructs the MySQL DSN from a merged parameter set.
// Values go through the driver's own formatter, never string concatenation,
// so credentials with special characters survive intact.
func buildDSN(params config.Params) string {
	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(strVal(params.Host, "127.0.0.1"), strconv.Itoa(intVal(params.Port, 3306)))
	cfg.User = strVal(params.User, "")
	cfg.Passwd = strVal(params.Password, "")
	cfg.DBName = strVal(params.Database, "")
	cfg.ParseTime = true
	_ = cfg.Apply(gomysql.Charset(strVal(params.Charset, "utf8mb4"), ""))
	return cfg.FormatDSN()
}

// QueryContext executes a query returning multiple rows. Driver errors come
// back classified by MySQL error number.
func (c *Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return rows, nil
}

// BeginTx starts the transaction a batch executes under.
func (c *Conn) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}

// Close releases the connection. Safe to defer on every path.
func (c *Conn) Close() error {
	return c.db.Close()
}

func strVal(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}

func intVal(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}
