package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/eduardofuncao/sqlhelp/internal/run"
	"github.com/eduardofuncao/sqlhelp/internal/styles"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// MaxCellWidth bounds the width of a cell in table output.
const MaxCellWidth = 40

// ParseFormat accepts a format name or its one-letter short form.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return FormatTable, nil
	case "c", "csv":
		return FormatCSV, nil
	case "t", "tsv":
		return FormatTSV, nil
	case "j", "json":
		return FormatJSON, nil
	case "m", "md", "markdown":
		return FormatMarkdown, nil
	case "h", "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Formats lists every supported output format in display order.
func Formats() []Format {
	return []Format{FormatTable, FormatCSV, FormatTSV, FormatJSON, FormatMarkdown, FormatHTML}
}

// Render formats a result set.
func Render(rs *run.ResultSet, format Format) (string, error) {
	if rs == nil {
		rs = &run.ResultSet{}
	}
	rows := rs.Strings()

	switch format {
	case FormatTable:
		return formatTable(rs.Columns, rows), nil
	case FormatCSV:
		return formatCSV(rs.Columns, rows)
	case FormatTSV:
		return formatTSV(rs.Columns, rows), nil
	case FormatJSON:
		return formatJSON(rs)
	case FormatMarkdown:
		return formatMarkdown(rs.Columns, rows), nil
	case FormatHTML:
		return formatHTML(rs.Columns, rows), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// Copy puts content on the system clipboard.
func Copy(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

func truncateCell(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	return runewidth.Truncate(s, maxLen, "…")
}

func formatTable(headers []string, rows [][]string) string {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, cell := range row {
			cells[i][j] = truncateCell(cell, MaxCellWidth)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeader.Padding(0, 1)
			}
			return styles.TableCell.Padding(0, 1)
		}).
		Headers(headers...).
		Rows(cells...)

	return t.String()
}

func formatCSV(headers []string, rows [][]string) (string, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatTSV(headers []string, rows [][]string) string {
	clean := strings.NewReplacer("\t", " ", "\n", " ")

	var buf strings.Builder
	writeLine := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				buf.WriteByte('\t')
			}
			buf.WriteString(clean.Replace(cell))
		}
		buf.WriteByte('\n')
	}

	writeLine(headers)
	for _, row := range rows {
		writeLine(row)
	}
	return buf.String()
}

// formatJSON keeps driver values so numbers, booleans and NULL survive.
func formatJSON(rs *run.ResultSet) (string, error) {
	objects := make([]map[string]any, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		obj := make(map[string]any, len(rs.Columns))
		for i, col := range rs.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		objects = append(objects, obj)
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatMarkdown(headers []string, rows [][]string) string {
	escape := strings.NewReplacer("|", `\|`, "\n", " ")

	var buf strings.Builder
	buf.WriteString("|")
	for _, header := range headers {
		buf.WriteString(" " + escape.Replace(header) + " |")
	}
	buf.WriteString("\n|")
	for range headers {
		buf.WriteString(" --- |")
	}
	buf.WriteString("\n")

	for _, row := range rows {
		buf.WriteString("|")
		for _, cell := range row {
			buf.WriteString(" " + escape.Replace(cell) + " |")
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func formatHTML(headers []string, rows [][]string) string {
	var buf strings.Builder

	buf.WriteString("<table>\n<thead>\n<tr>\n")
	for _, header := range headers {
		fmt.Fprintf(&buf, "<th>%s</th>\n", htmlEscaper.Replace(header))
	}
	buf.WriteString("</tr>\n</thead>\n<tbody>\n")

	for i, row := range rows {
		if i%2 == 1 {
			buf.WriteString("<tr class=\"odd\">\n")
		} else {
			buf.WriteString("<tr>\n")
		}
		for _, cell := range row {
			fmt.Fprintf(&buf, "<td>%s</td>\n", htmlEscaper.Replace(cell))
		}
		buf.WriteString("</tr>\n")
	}

	buf.WriteString("</tbody>\n</table>\n")
	return buf.String()
}
