package parser

import (
	"strings"
	"unicode"

	"github.com/eduardofuncao/sqlhelp/internal/styles"
)

var highlightKeywords = map[string]bool{}

func init() {
	for _, kw := range []string{
		"SELECT", "FROM", "WHERE", "JOIN", "LEFT", "RIGHT", "INNER", "FULL", "CROSS", "OUTER",
		"ON", "GROUP", "BY", "HAVING", "ORDER", "LIMIT", "OFFSET", "UNION", "ALL",
		"INSERT", "INTO", "UPDATE", "DELETE", "VALUES", "SET", "AND", "OR", "NOT",
		"IN", "EXISTS", "BETWEEN", "LIKE", "IS", "NULL", "DISTINCT", "AS",
		"CASE", "WHEN", "THEN", "ELSE", "END", "FETCH", "FIRST", "ROWS", "ONLY",
		"CREATE", "TABLE", "DROP", "ALTER", "WITH", "RETURNING", "PRIMARY", "KEY",
	} {
		highlightKeywords[kw] = true
	}
}

// HighlightSQL colors keywords and single-quoted literals. Keywords inside
// literals are left alone.
func HighlightSQL(sql string) string {
	var result strings.Builder
	runes := []rune(sql)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'':
			j := i + 1
			for j < len(runes) {
				if runes[j] == '\'' {
					if j+1 < len(runes) && runes[j+1] == '\'' {
						j += 2
						continue
					}
					j++
					break
				}
				j++
			}
			result.WriteString(styles.SQLString.Render(string(runes[i:j])))
			i = j
		case isWordRune(r):
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if highlightKeywords[strings.ToUpper(word)] {
				result.WriteString(styles.SQLKeyword.Render(word))
			} else {
				result.WriteString(word)
			}
			i = j
		default:
			result.WriteRune(r)
			i++
		}
	}

	return result.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
