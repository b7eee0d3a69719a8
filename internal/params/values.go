package params

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse converts command-line words into statement arguments.
//
//	NULL        -> nil
//	42, -7      -> int64
//	3.14, 1e3   -> float64
//	true, false -> bool
//
// Anything else is passed through as a string, including integers written
// with a leading zero (0123, -007) so codes and zip numbers keep their digits.
// Quote a word with single quotes ('42') to keep it a string.
func Parse(words []string) []any {
	args := make([]any, len(words))
	for i, w := range words {
		args[i] = parseValue(w)
	}
	return args
}

func parseValue(w string) any {
	if len(w) >= 2 && strings.HasPrefix(w, "'") && strings.HasSuffix(w, "'") {
		return strings.ReplaceAll(w[1:len(w)-1], "''", "'")
	}

	switch {
	case w == "NULL":
		return nil
	case strings.EqualFold(w, "true"):
		return true
	case strings.EqualFold(w, "false"):
		return false
	}

	if !isNumeric(w) || hasLeadingZero(w) {
		return w
	}
	if n, err := strconv.ParseInt(w, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(w, 64); err == nil {
		return f
	}
	return w
}

// isNumeric reports whether s looks like a decimal number. Hex, inf and nan
// spellings accepted by strconv are left as strings.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == '+':
			if i != 0 && s[i-1] != 'e' && s[i-1] != 'E' {
				return false
			}
		case r == '.' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return digits > 0
}

// hasLeadingZero reports whether s, after an optional sign, starts with a zero
// followed by another digit. "0", "0.5" and "0e1" are not affected.
func hasLeadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

// ReadBatch reads CSV records from r and parses every field with Parse.
// Each record becomes one parameter tuple. With header set the first record
// is skipped. Records may have differing field counts; arity is checked
// against the statement by the executor.
func ReadBatch(r io.Reader, header bool) ([][]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var batch [][]any
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read batch: %w", err)
		}
		line++
		if header && line == 1 {
			continue
		}
		batch = append(batch, Parse(record))
	}
	return batch, nil
}
