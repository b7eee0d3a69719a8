package run

import (
	"context"
	"database/sql"
	"fmt"
)

// Conn is the connection an Executor call owns for its whole duration.
// *db.Connection implements it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Rebind(query string) (string, int)
	Close() error
}

// ConnectFunc opens a fresh connection.
type ConnectFunc func(ctx context.Context) (Conn, error)

// Row is one fetched row, in column order.
type Row []any

// ResultSet is the outcome of a select.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Strings renders every value with fmt, NULL for nil.
func (r *ResultSet) Strings() [][]string {
	data := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rowData := make([]string, len(row))
		for i, val := range row {
			if val == nil {
				rowData[i] = "NULL"
			} else {
				rowData[i] = fmt.Sprintf("%v", val)
			}
		}
		data = append(data, rowData)
	}
	return data
}
