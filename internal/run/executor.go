package run

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eduardofuncao/sqlhelp/internal/db"
	"github.com/eduardofuncao/sqlhelp/internal/logger"
)

// Executor runs one statement (or one batch) per call, each on its own
// connection. It keeps no state between calls and is safe for concurrent use.
type Executor struct {
	connect ConnectFunc
}

// New returns an Executor that connects through f.
func New(f *db.Factory) *Executor {
	return NewWithConnector(func(ctx context.Context) (Conn, error) {
		conn, err := f.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	})
}

func NewWithConnector(connect ConnectFunc) *Executor {
	return &Executor{connect: connect}
}

// withConn opens a connection, hands it to fn and closes it on every path.
func (e *Executor) withConn(ctx context.Context, op string, fn func(Conn) error) (err error) {
	start := time.Now()
	conn, err := e.connect(ctx)
	if err != nil {
		return fmt.Errorf("could not open connection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close connection: %w", cerr))
		}
		logger.Debug("statement finished", "op", op, "elapsed", time.Since(start), "error", err)
	}()

	return fn(conn)
}

// inTx runs fn inside a transaction, committing once when fn succeeds and
// rolling back otherwise.
func inTx(ctx context.Context, conn Conn, fn func(*sql.Tx) error) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// bind rewrites %s markers for the connection's driver and checks arity.
func bind(conn Conn, query string, args int) (string, error) {
	bound, markers := conn.Rebind(query)
	if err := db.CheckArity(markers, args); err != nil {
		return "", err
	}
	return bound, nil
}

// Execute runs a statement that returns no rows and commits it.
func (e *Executor) Execute(ctx context.Context, query string, args ...any) error {
	return e.withConn(ctx, "execute", func(conn Conn) error {
		bound, err := bind(conn, query, len(args))
		if err != nil {
			return err
		}
		return inTx(ctx, conn, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, bound, args...); err != nil {
				return fmt.Errorf("query execution failed: %w", err)
			}
			return nil
		})
	})
}

// ExecuteMany runs query once per parameter tuple inside one transaction.
// Either every tuple is committed or none is. It returns the summed number
// of affected rows as reported by the driver. The count is best-effort: a row
// whose driver cannot report it is logged at debug level and not counted.
func (e *Executor) ExecuteMany(ctx context.Context, query string, batch [][]any) (int64, error) {
	var affected int64
	err := e.withConn(ctx, "execute_many", func(conn Conn) error {
		bound, markers := conn.Rebind(query)
		return inTx(ctx, conn, func(tx *sql.Tx) error {
			for i, args := range batch {
				if err := db.CheckArity(markers, len(args)); err != nil {
					return fmt.Errorf("batch row %d: %w", i, err)
				}
				res, err := tx.ExecContext(ctx, bound, args...)
				if err != nil {
					return fmt.Errorf("batch row %d: query execution failed: %w", i, err)
				}
				n, err := res.RowsAffected()
				if err != nil {
					logger.Debug("rows affected unavailable", "row", i, "error", err)
					continue
				}
				affected += n
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// SelectAll returns every matching row. Rows is empty, not nil, when
// nothing matches. No commit is issued.
func (e *Executor) SelectAll(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	return e.selectRows(ctx, query, 0, args)
}

// SelectOne returns the first matching row, or nil when nothing matches.
func (e *Executor) SelectOne(ctx context.Context, query string, args ...any) (Row, error) {
	rs, err := e.selectRows(ctx, query, 1, args)
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 {
		return nil, nil
	}
	return rs.Rows[0], nil
}

// Select combines SelectOne and SelectAll. With fetchOne the result holds at
// most one row and is nil when nothing matches.
func (e *Executor) Select(ctx context.Context, query string, fetchOne bool, args ...any) (*ResultSet, error) {
	if !fetchOne {
		return e.SelectAll(ctx, query, args...)
	}
	rs, err := e.selectRows(ctx, query, 1, args)
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 {
		return nil, nil
	}
	return rs, nil
}

func (e *Executor) selectRows(ctx context.Context, query string, limit int, args []any) (*ResultSet, error) {
	var rs *ResultSet
	err := e.withConn(ctx, "select", func(conn Conn) error {
		bound, err := bind(conn, query, len(args))
		if err != nil {
			return err
		}
		rows, err := conn.QueryContext(ctx, bound, args...)
		if err != nil {
			return fmt.Errorf("query execution failed: %w", err)
		}
		defer rows.Close()

		rs, err = scanRows(rows, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}
