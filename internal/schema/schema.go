// Package schema defines the fixed column set for the location schedule and
// resolves pasted spreadsheet headers to canonical column keys.
package schema

import (
	"fmt"
	"strings"
)

// Type is the value type of a column.
type Type string

const (
	TypeText     Type = "text"
	TypeNumber   Type = "number"
	TypeCurrency Type = "currency"
	TypeDate     Type = "date"
	TypeSelect   Type = "select"
)

// Option is one entry of a select column's controlled vocabulary.
type Option struct {
	Value string
	Label string
}

// Column is a single immutable column definition.
type Column struct {
	Key        string
	Label      string
	Width      int
	Type       Type
	Options    []Option // only for TypeSelect
	Searchable bool     // participates in the grid's text search
}

// Schema is an ordered, immutable list of columns plus the header alias map.
// Column order defines both display order and the positional mapping used for
// headerless bulk paste.
type Schema struct {
	cols    []Column
	byKey   map[string]int
	aliases map[string]string // normalized header -> column key
}

// New builds a Schema from cols, merging extraAliases over the built-in alias
// table (extras win). Column keys must be unique.
func New(cols []Column, extraAliases map[string]string) (*Schema, error) {
	s := &Schema{
		cols:    append([]Column(nil), cols...),
		byKey:   make(map[string]int, len(cols)),
		aliases: make(map[string]string, len(builtinAliases)+len(extraAliases)),
	}
	for i, c := range cols {
		if c.Key == "" {
			return nil, fmt.Errorf("column %d: empty key", i)
		}
		if _, dup := s.byKey[c.Key]; dup {
			return nil, fmt.Errorf("duplicate column key %q", c.Key)
		}
		s.byKey[c.Key] = i
	}
	for raw, key := range builtinAliases {
		s.addAlias(raw, key)
	}
	for raw, key := range extraAliases {
		s.addAlias(raw, key)
	}
	return s, nil
}

func (s *Schema) addAlias(raw, key string) {
	if _, ok := s.byKey[key]; !ok {
		return // alias for a column this schema doesn't carry
	}
	s.aliases[normalizeHeader(raw)] = key
}

// Columns returns the column list in schema order.
func (s *Schema) Columns() []Column { return s.cols }

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.cols) }

// Col returns the column at index i.
func (s *Schema) Col(i int) (Column, bool) {
	if i < 0 || i >= len(s.cols) {
		return Column{}, false
	}
	return s.cols[i], true
}

// Index returns the schema index of key, or -1.
func (s *Schema) Index(key string) int {
	if i, ok := s.byKey[key]; ok {
		return i
	}
	return -1
}

// SearchKeys returns the keys of the searchable columns, in schema order.
func (s *Schema) SearchKeys() []string {
	var out []string
	for _, c := range s.cols {
		if c.Searchable {
			out = append(out, c.Key)
		}
	}
	return out
}

// normalizeHeader lowercases, trims, collapses inner whitespace, and strips
// computed-field suffixes like "(from Policies)" that spreadsheet exports
// append to column names.
func normalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(h, "(from "); i > 0 {
		h = strings.TrimSpace(h[:i])
	}
	h = strings.TrimSuffix(h, ":")
	return strings.Join(strings.Fields(h), " ")
}
