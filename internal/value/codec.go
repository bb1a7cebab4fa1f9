// Package value converts between what the user typed or pasted (always a
// string) and what is stored (string, float64, or nil), and between stored
// values and display text.
package value

import (
	"math"
	"strconv"
	"strings"
	"time"

	"sovgrid/internal/schema"
)

// emptyDisplay is rendered for nil/absent values.
const emptyDisplay = "—"

// dateLayouts are the date shapes we normalize into ISO. Order matters; the
// first parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/01/02",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseInput converts raw typed/pasted text into the stored representation
// for col. It never fails: unparseable numbers become nil, unparseable dates
// are stored as the raw trimmed string, and select columns accept free text
// outside their option list.
func ParseInput(raw string, col schema.Column) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	switch col.Type {
	case schema.TypeNumber, schema.TypeCurrency:
		return parseNumeric(trimmed)
	case schema.TypeDate:
		return parseDate(trimmed)
	case schema.TypeSelect:
		for _, opt := range col.Options {
			if strings.EqualFold(trimmed, opt.Value) || strings.EqualFold(trimmed, opt.Label) {
				return opt.Value
			}
		}
		return trimmed
	default:
		return trimmed
	}
}

// parseNumeric strips currency symbols and thousands separators before
// parsing. Anything that still fails to parse stores as nil, never NaN.
func parseNumeric(s string) any {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	cleaned = strings.TrimSuffix(cleaned, "%")
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		// Accountant negative: (1,234) means -1234.
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// parseDate normalizes common date text into ISO YYYY-MM-DD. Input that is
// already ISO-shaped passes through; unparseable input is stored raw. That
// leniency is deliberate: a bad date in a pasted sheet should land in the
// cell, not crash the paste.
func parseDate(s string) any {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// FormatDisplay renders a stored value for read display. Currency gets
// thousands separators and no decimal places, numbers get thousands
// separators, empty values render as an em-dash placeholder.
func FormatDisplay(v any, col schema.Column) string {
	if v == nil {
		return emptyDisplay
	}
	switch col.Type {
	case schema.TypeCurrency:
		if f, ok := asFloat(v); ok {
			return groupThousands(strconv.FormatFloat(math.Round(f), 'f', 0, 64))
		}
	case schema.TypeNumber:
		if f, ok := asFloat(v); ok {
			return groupThousands(strconv.FormatFloat(f, 'f', -1, 64))
		}
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return emptyDisplay
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return emptyDisplay
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		// Values round-tripped through text storage still display numerically.
		f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// groupThousands inserts comma separators into the integer part of a plain
// decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	out := intPart + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
