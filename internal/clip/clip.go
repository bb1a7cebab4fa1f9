// Package clip interprets pasted clipboard text. Paste intent is
// disambiguated structurally: a single value (no tab, one line), a
// rectangular block overwriting cells in place, or bulk new-row creation
// with header detection. The wire format is the plain tab/newline-delimited
// text spreadsheet applications put on the clipboard.
package clip

import (
	"errors"
	"strings"

	"sovgrid/internal/schema"
	"sovgrid/internal/value"
)

// ErrNoUsableRows reports a bulk paste whose every row reduced to zero
// resolvable, non-empty fields.
var ErrNoUsableRows = errors.New("paste contains no usable rows")

// IsBlock reports whether pasted text should be treated as a multi-cell
// block rather than input for the focused cell's editor.
func IsBlock(text string) bool {
	t := normalize(text)
	return strings.Contains(t, "\t") || strings.Contains(strings.TrimRight(t, "\n"), "\n")
}

/// ParseMatrix splits pasted text into a rectangular-ish grid: rows on
// newlines, cells on tabs, surrounding quotes trimmed per cell. A single
// trailing newline (Excel always appends one) does not produce an empty row.
func ParseMatrix(text string) [][]string {
	t := strings.TrimRight(normalize(text), "\n")
	if t == "" {
		return nil
	}
	lines := strings.Split(t, "\n")
	out := make([][]string, len(lines))
	for i, line := range lines {
		cells := strings.Split(line, "\t")
		for j, c := range cells {
			cells[j] = trimCell(c)
		}
		out[i] = cells
	}
	return out
}

func normalize(text string) string {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(t, "\r", "\n")
}

// trimCell strips surrounding whitespace and one layer of matching quotes.
// Excel quotes cells containing embedded newlines or tabs on copy.
func trimCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// BulkResult is the outcome of parsing a bulk "paste new rows" text.
type BulkResult struct {
	Payloads       []map[string]any
	HeaderDetected bool
	DroppedRows    int // data rows that yielded no usable fields
}

// ParseBulk parses text into full new-row payloads. The first row is
// treated as a header row when enough of its cells resolve to known columns;
// otherwise schema order supplies the positional column mapping.
// Unresolvable columns are dropped, id-like columns are always excluded
// (identity is store-assigned), and rows with no usable field are skipped.
func ParseBulk(text string, sch *schema.Schema) (BulkResult, error) {
	matrix := ParseMatrix(text)
	if len(matrix) == 0 {
		return BulkResult{}, ErrNoUsableRows
	}

	res := BulkResult{HeaderDetected: sch.LooksLikeHeaderRow(matrix[0])}
	var keys []string
	data := matrix
	if res.HeaderDetected {
		for _, cell := range matrix[0] {
			key := sch.ResolveHeader(cell)
			if isIDHeader(cell) {
				key = ""
			}
			keys = append(keys, key)
		}
		data = matrix[1:]
	} else {
		for _, c := range sch.Columns() {
			keys = append(keys, c.Key)
		}
	}

	for _, rowCells := range data {
		payload := make(map[string]any)
		for i, cell := range rowCells {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			col, _ := sch.Col(sch.Index(keys[i]))
			if v := value.ParseInput(cell, col); v != nil {
				payload[keys[i]] = v
			}
		}
		if len(payload) == 0 {
			res.DroppedRows++
			continue
		}
		res.Payloads = append(res.Payloads, payload)
	}
	if len(res.Payloads) == 0 {
		return BulkResult{}, ErrNoUsableRows
	}
	return res, nil
}

// isIDHeader matches header text naming a record-id column.
func isIDHeader(raw string) bool {
	h := strings.ToLower(strings.TrimSpace(raw))
	return h == "id" || h == "record id" || strings.HasSuffix(h, " id")
}
