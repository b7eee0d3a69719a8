package db

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/eduardofuncao/sqlhelp/internal/config"
)

// DSN builds the driver-native data source name for a profile.
func DSN(d Driver, p config.Profile) (string, error) {
	switch d.Name {
	case dbTypePostgres:
		return postgresDSN(p), nil
	case dbTypeMySQL:
		return mysqlDSN(p), nil
	case dbTypeSQLite:
		return sqliteDSN(p), nil
	case dbTypeOracle:
		return oracleDSN(p), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, d.Name)
	}
}

func optionValues(opts map[string]string) url.Values {
	values := url.Values{}
	for k, v := range opts {
		values.Set(k, v)
	}
	return values
}

func postgresDSN(p config.Profile) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Addr(),
		Path:     "/" + p.DBName,
		RawQuery: optionValues(p.Options).Encode(),
	}
	return u.String()
}

func mysqlDSN(p config.Profile) string {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = p.Addr()
	cfg.DBName = p.DBName
	if len(p.Options) > 0 {
		cfg.Params = make(map[string]string, len(p.Options))
		for k, v := range p.Options {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN()
}

// sqliteDSN uses DBNAME as the database file; host and port are ignored.
func sqliteDSN(p config.Profile) string {
	if len(p.Options) == 0 {
		return p.DBName
	}
	return p.DBName + "?" + optionValues(p.Options).Encode()
}

// oracleDSN renders godror's logfmt form.
func oracleDSN(p config.Profile) string {
	parts := []string{
		"user=" + strconv.Quote(p.User),
		"password=" + strconv.Quote(p.Password),
		"connectString=" + strconv.Quote(p.Addr()+"/"+p.DBName),
	}

	keys := make([]string, 0, len(p.Options))
	for k := range p.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Quote(p.Options[k]))
	}
	return strings.Join(parts, " ")
}
