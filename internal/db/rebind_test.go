package db

import (
	"errors"
	"testing"
)

func TestRebind(t *testing.T) {
	pg, _ := ResolveDriver("postgresql")
	my, _ := ResolveDriver("mysql")
	ora, _ := ResolveDriver("oracle")

	tests := []struct {
		name      string
		driver    Driver
		query     string
		want      string
		wantCount int
	}{
		{
			name:      "postgres numbering",
			driver:    pg,
			query:     "INSERT INTO t(a, b) VALUES (%s, %s)",
			want:      "INSERT INTO t(a, b) VALUES ($1, $2)",
			wantCount: 2,
		},
		{
			name:      "mysql question marks",
			driver:    my,
			query:     "SELECT x FROM t WHERE x = %s",
			want:      "SELECT x FROM t WHERE x = ?",
			wantCount: 1,
		},
		{
			name:      "oracle colon numbering",
			driver:    ora,
			query:     "UPDATE t SET a = %s WHERE id = %s",
			want:      "UPDATE t SET a = :1 WHERE id = :2",
			wantCount: 2,
		},
		{
			name:      "marker inside string literal untouched",
			driver:    pg,
			query:     "SELECT '%s', 'it''s %s' FROM t WHERE a = %s",
			want:      "SELECT '%s', 'it''s %s' FROM t WHERE a = $1",
			wantCount: 1,
		},
		{
			name:      "quoted identifier untouched",
			driver:    pg,
			query:     `SELECT "col%s" FROM t WHERE a = %s`,
			want:      `SELECT "col%s" FROM t WHERE a = $1`,
			wantCount: 1,
		},
		{
			name:      "comments untouched",
			driver:    my,
			query:     "SELECT a -- where %s\nFROM t /* %s */ WHERE b = %s",
			want:      "SELECT a -- where %s\nFROM t /* %s */ WHERE b = ?",
			wantCount: 1,
		},
		{
			name:      "escaped percent",
			driver:    pg,
			query:     "SELECT a FROM t WHERE b LIKE 'x' || %s || '%' AND c = 100%%",
			want:      "SELECT a FROM t WHERE b LIKE 'x' || $1 || '%' AND c = 100%",
			wantCount: 1,
		},
		{
			name:      "native placeholders pass through",
			driver:    pg,
			query:     "SELECT a FROM t WHERE b = $1 AND c LIKE '10%'",
			want:      "SELECT a FROM t WHERE b = $1 AND c LIKE '10%'",
			wantCount: 0,
		},
		{
			name:      "escaped percent without markers",
			driver:    my,
			query:     "SELECT 10 %% 3, '100%%' -- 50%%",
			want:      "SELECT 10 % 3, '100%' -- 50%",
			wantCount: 0,
		},
		{
			name:      "escaped percent inside literal with markers",
			driver:    pg,
			query:     "SELECT '100%%', \"a%%b\" /* %% */ WHERE x = %s",
			want:      "SELECT '100%', \"a%b\" /* % */ WHERE x = $1",
			wantCount: 1,
		},
		{
			name:      "escaped percent before marker in literal",
			driver:    pg,
			query:     "SELECT '%%%s' WHERE x = %s",
			want:      "SELECT '%%s' WHERE x = $1",
			wantCount: 1,
		},
		{
			name:      "mysql backslash-escaped quote",
			driver:    my,
			query:     `SELECT 'it\'s %s', %s`,
			want:      `SELECT 'it\'s %s', ?`,
			wantCount: 1,
		},
		{
			name:      "postgres backslash is not an escape",
			driver:    pg,
			query:     `SELECT 'C:\', %s`,
			want:      `SELECT 'C:\', $1`,
			wantCount: 1,
		},
		{
			name:      "unterminated literal",
			driver:    my,
			query:     "SELECT %s, 'open",
			want:      "SELECT ?, 'open",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := Rebind(tt.driver, tt.query)
			if got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
			if n != tt.wantCount {
				t.Errorf("Rebind() count = %d, want %d", n, tt.wantCount)
			}
		})
	}
}

func TestCheckArity(t *testing.T) {
	if err := CheckArity(0, 3); err != nil {
		t.Errorf("CheckArity(0, 3) = %v, want nil", err)
	}
	if err := CheckArity(2, 2); err != nil {
		t.Errorf("CheckArity(2, 2) = %v, want nil", err)
	}

	err := CheckArity(2, 1)
	if !errors.Is(err, ErrArity) {
		t.Fatalf("CheckArity(2, 1) = %v, want ErrArity", err)
	}
	var ae *ArityError
	if !errors.As(err, &ae) || ae.Markers != 2 || ae.Args != 1 {
		t.Errorf("CheckArity(2, 1) = %#v", err)
	}
}
