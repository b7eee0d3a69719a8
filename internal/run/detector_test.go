package run

import "testing"

func TestIsSelectQuery(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"  select * from users", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"SHOW TABLES", true},
		{"describe users", true},
		{"EXPLAIN SELECT 1", true},
		{"PRAGMA table_info(users)", true},
		{"VALUES (1), (2)", true},
		{"SELECT\n  id\nFROM t", true},
		{"SELECT\tid FROM t", true},
		{"(SELECT 1) UNION (SELECT 2)", true},
		{"-- list users\nSELECT * FROM users", true},
		{"/* report */ SELECT 1", true},
		{"INSERT INTO t VALUES (1)", false},
		{"UPDATE t SET x = 1", false},
		{"DELETE FROM t", false},
		{"CREATE TABLE t (x INT)", false},
		{"SELECTED", false},
		{"-- only a comment", false},
		{"/* unterminated", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSelectQuery(tt.sql); got != tt.want {
			t.Errorf("IsSelectQuery(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}
