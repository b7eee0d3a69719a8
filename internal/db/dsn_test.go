package db

import (
	"errors"
	"net/url"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/eduardofuncao/sqlhelp/internal/config"
)

func testProfile(dbms string) config.Profile {
	return config.Profile{
		Alias:    "default",
		DBMS:     dbms,
		Host:     "db.internal",
		Port:     5433,
		DBName:   "app",
		User:     "app_user",
		Password: "p@ss word",
	}
}

func TestResolveDriver(t *testing.T) {
	tests := []struct {
		dbms     string
		wantName string
		wantSQL  string
		wantBind string
	}{
		{"", "postgres", "postgres", "$3"},
		{"postgresql", "postgres", "postgres", "$3"},
		{"PostgreSQL", "postgres", "postgres", "$3"},
		{"mariadb", "mysql", "mysql", "?"},
		{"sqlite3", "sqlite", "sqlite3", "?"},
		{"oracle", "oracle", "godror", ":3"},
	}

	for _, tt := range tests {
		t.Run(tt.dbms, func(t *testing.T) {
			d, err := ResolveDriver(tt.dbms)
			if err != nil {
				t.Fatalf("ResolveDriver(%q) error = %v", tt.dbms, err)
			}
			if d.Name != tt.wantName || d.SQLName != tt.wantSQL {
				t.Errorf("ResolveDriver(%q) = %+v", tt.dbms, d)
			}
			if got := d.Bind(3); got != tt.wantBind {
				t.Errorf("Bind(3) = %s, want %s", got, tt.wantBind)
			}
		})
	}

	if _, err := ResolveDriver("mongodb"); !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("ResolveDriver(mongodb) error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := testProfile("postgresql")
	p.Options = map[string]string{"sslmode": "disable"}
	d, _ := ResolveDriver(p.DBMS)

	dsn, err := DSN(d, p)
	if err != nil {
		t.Fatalf("DSN() error = %v", err)
	}

	if _, err := pq.NewConnector(dsn); err != nil {
		t.Fatalf("pq.NewConnector(%s) error = %v", dsn, err)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("url.Parse(%s) error = %v", dsn, err)
	}
	pass, _ := u.User.Password()
	if u.User.Username() != "app_user" || pass != "p@ss word" {
		t.Errorf("credentials = %s/%s", u.User.Username(), pass)
	}
	if u.Host != "db.internal:5433" || u.Path != "/app" {
		t.Errorf("host/path = %s %s", u.Host, u.Path)
	}
	if u.Query().Get("sslmode") != "disable" {
		t.Errorf("query = %s, want sslmode=disable", u.RawQuery)
	}
}

func TestMySQLDSN(t *testing.T) {
	p := testProfile("mysql")
	p.Options = map[string]string{"charset": "utf8mb4"}
	d, _ := ResolveDriver(p.DBMS)

	dsn, err := DSN(d, p)
	if err != nil {
		t.Fatalf("DSN() error = %v", err)
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("mysql.ParseDSN(%s) error = %v", dsn, err)
	}
	if cfg.User != p.User || cfg.Passwd != p.Password {
		t.Errorf("credentials = %s/%s", cfg.User, cfg.Passwd)
	}
	if cfg.Net != "tcp" || cfg.Addr != "db.internal:5433" {
		t.Errorf("address = %s(%s)", cfg.Net, cfg.Addr)
	}
	if cfg.DBName != "app" {
		t.Errorf("DBName = %s, want app", cfg.DBName)
	}
	if cfg.Params["charset"] != "utf8mb4" {
		t.Errorf("Params = %v", cfg.Params)
	}
}

func TestSQLiteDSN(t *testing.T) {
	p := testProfile("sqlite")
	p.DBName = "/tmp/app.db"
	d, _ := ResolveDriver(p.DBMS)

	dsn, _ := DSN(d, p)
	if dsn != "/tmp/app.db" {
		t.Errorf("DSN() = %s, want /tmp/app.db", dsn)
	}

	p.Options = map[string]string{"_busy_timeout": "5000"}
	dsn, _ = DSN(d, p)
	if dsn != "/tmp/app.db?_busy_timeout=5000" {
		t.Errorf("DSN() with options = %s", dsn)
	}
}

func TestOracleDSN(t *testing.T) {
	p := testProfile("oracle")
	p.Options = map[string]string{"poolMaxSessions": "1", "configDir": "/etc/oracle"}
	d, _ := ResolveDriver(p.DBMS)

	dsn, _ := DSN(d, p)
	want := `user="app_user" password="p@ss word" connectString="db.internal:5433/app" configDir="/etc/oracle" poolMaxSessions="1"`
	if dsn != want {
		t.Errorf("DSN() = %s\nwant    %s", dsn, want)
	}
}
