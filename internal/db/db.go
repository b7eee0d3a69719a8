package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eduardofuncao/sqlhelp/internal/config"
	"github.com/eduardofuncao/sqlhelp/internal/logger"
)

// Connection is a single physical database connection opened for one call.
// It is never pooled or shared and must be closed by its owner.
type Connection struct {
	profile config.Profile
	driver  Driver
	db      *sql.DB
	conn    *sql.Conn
	closed  bool
}

// Open connects to the database described by p and verifies the connection
// with a ping. Everything acquired is released again when Open fails.
func Open(ctx context.Context, p config.Profile) (*Connection, error) {
	driver, err := ResolveDriver(p.DBMS)
	if err != nil {
		return nil, err
	}
	dsn, err := DSN(driver, p)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver.SQLName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect to %s/%s: %w", driver.Name, p.Alias, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	logger.Debug("connection opened", "alias", p.Alias, "dbms", driver.Name, "addr", p.Addr(), "database", p.DBName)
	return &Connection{
		profile: p,
		driver:  driver,
		db:      sqlDB,
		conn:    conn,
	}, nil
}

func (c *Connection) Profile() config.Profile { return c.profile }
func (c *Connection) Driver() Driver          { return c.driver }

// Rebind rewrites %s markers for this connection's driver.
func (c *Connection) Rebind(query string) (string, int) {
	return Rebind(c.driver, query)
}

func (c *Connection) PingContext(ctx context.Context) error {
	if c.closed {
		return sql.ErrConnDone
	}
	return c.conn.PingContext(ctx)
}

func (c *Connection) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c *Connection) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.conn.QueryContext(ctx, query, args...)
}

func (c *Connection) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return c.conn.BeginTx(ctx, opts)
}

// Close releases the connection. Calling it more than once is a no-op.
func (c *Connection) Close() error {
	if c == nil || c.closed {
		return nil
	}
	c.closed = true
	err := errors.Join(c.conn.Close(), c.db.Close())
	logger.Debug("connection closed", "alias", c.profile.Alias, "error", err)
	return err
}
