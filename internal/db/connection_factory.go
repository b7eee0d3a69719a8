package db

import (
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/godror/godror"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbTypePostgres = "postgres"
	dbTypeMySQL    = "mysql"
	dbTypeSQLite   = "sqlite"
	dbTypeOracle   = "oracle"
)

var ErrUnsupportedDriver = errors.New("unsupported dbms")

// PlaceholderStyle is the native bind marker of a driver.
type PlaceholderStyle int

const (
	QuestionMark PlaceholderStyle = iota // ?
	DollarNumber                         // $1
	ColonNumber                          // :1
)

// Driver describes how to reach one kind of database through database/sql.
type Driver struct {
	// Name is the canonical dbms name.
	Name string
	// SQLName is the name registered with database/sql.
	SQLName     string
	Placeholder PlaceholderStyle
}

// Bind returns the native marker for the 1-based parameter index.
func (d Driver) Bind(index int) string {
	switch d.Placeholder {
	case DollarNumber:
		return fmt.Sprintf("$%d", index)
	case ColonNumber:
		return fmt.Sprintf(":%d", index)
	default:
		return "?"
	}
}

// ResolveDriver maps the DBMS field of a profile to a driver.
// An empty DBMS selects postgres.
func ResolveDriver(dbms string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(dbms)) {
	case "", "postgres", "postgresql", "pg":
		return Driver{Name: dbTypePostgres, SQLName: "postgres", Placeholder: DollarNumber}, nil
	case "mysql", "mariadb":
		return Driver{Name: dbTypeMySQL, SQLName: "mysql", Placeholder: QuestionMark}, nil
	case "sqlite", "sqlite3":
		return Driver{Name: dbTypeSQLite, SQLName: "sqlite3", Placeholder: QuestionMark}, nil
	case "oracle", "godror":
		return Driver{Name: dbTypeOracle, SQLName: "godror", Placeholder: ColonNumber}, nil
	default:
		return Driver{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedDriver, dbms, strings.Join(GetSupportedDBTypes(), ", "))
	}
}

// GetSupportedDBTypes returns the canonical dbms names accepted in profiles.
func GetSupportedDBTypes() []string {
	return []string{
		dbTypePostgres,
		dbTypeMySQL,
		dbTypeSQLite,
		dbTypeOracle,
	}
}
