package db

import (
	"errors"
	"fmt"
	"strings"
)

var ErrArity = errors.New("parameter count mismatch")

// ArityError reports a query whose %s markers do not match the argument count.
type ArityError struct {
	Markers int
	Args    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%v: query has %d markers, got %d arguments", ErrArity, e.Markers, e.Args)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrArity
}

// Rebind rewrites %s markers into the driver's native placeholders and
// returns the rewritten query with the number of markers found. %% becomes a
// single % everywhere, including literals, identifiers and comments, and in
// queries without markers. %s inside quoted strings, quoted identifiers and
// comments is not a marker. Native placeholders ($1, ?) pass through.
func Rebind(d Driver, query string) (string, int) {
	var out strings.Builder
	out.Grow(len(query) + 8)
	n := 0
	backslash := d.Name == dbTypeMySQL

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := closingQuote(query, i+1, c, backslash && c != '`')
			out.WriteString(unescapePercent(query[i:end]))
			i = end - 1
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end == -1 {
				end = len(query)
			} else {
				end += i
			}
			out.WriteString(unescapePercent(query[i:end]))
			i = end - 1
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end == -1 {
				end = len(query)
			} else {
				end += i + 4
			}
			out.WriteString(unescapePercent(query[i:end]))
			i = end - 1
		case c == '%' && i+1 < len(query) && query[i+1] == 's':
			n++
			out.WriteString(d.Bind(n))
			i++
		case c == '%' && i+1 < len(query) && query[i+1] == '%':
			out.WriteByte('%')
			i++
		default:
			out.WriteByte(c)
		}
	}

	return out.String(), n
}

func unescapePercent(s string) string {
	return strings.ReplaceAll(s, "%%", "%")
}

// closingQuote returns the index just past the quote that closes the literal
// opened before start. A doubled quote character is an escaped quote; with
// backslash set, so is a quote preceded by a backslash (MySQL default).
func closingQuote(s string, start int, q byte, backslash bool) int {
	for i := start; i < len(s); i++ {
		if backslash && s[i] == '\\' {
			i++
			continue
		}
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

// CheckArity returns an *ArityError when markers were found and their count
// differs from the number of arguments.
func CheckArity(markers, args int) error {
	if markers > 0 && markers != args {
		return &ArityError{Markers: markers, Args: args}
	}
	return nil
}
