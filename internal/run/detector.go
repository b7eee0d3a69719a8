package run

import "strings"

// IsSelectQuery detects if the SQL is a SELECT-type query (returns data).
// Leading comments and opening parentheses are skipped.
func IsSelectQuery(sql string) bool {
	upper := strings.ToUpper(skipLeadingNoise(sql))
	keywords := []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "PRAGMA", "VALUES"}

	for _, kw := range keywords {
		if upper == kw || strings.HasPrefix(upper, kw+" ") || strings.HasPrefix(upper, kw+"\n") || strings.HasPrefix(upper, kw+"\t") {
			return true
		}
	}
	return false
}

func skipLeadingNoise(sql string) string {
	s := strings.TrimSpace(sql)
	for {
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx == -1 {
				return ""
			}
			s = s[idx+1:]
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx == -1 {
				return ""
			}
			s = s[idx+2:]
		case strings.HasPrefix(s, "("):
			s = s[1:]
		default:
			return s
		}
		s = strings.TrimSpace(s)
	}
}
