package schema

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// builtinAliases maps normalized spreadsheet header text to column keys.
// These cover the export variants we have seen; user config can extend the
// table at runtime (see New).
var builtinAliases = map[string]string{
	"name":                  "location_name",
	"location":              "location_name",
	"site name":             "location_name",
	"property name":         "location_name",
	"client":                "company",
	"client name":           "company",
	"company name":          "company",
	"insured":               "company",
	"address":               "street_address",
	"address 1":             "street_address",
	"street":                "street_address",
	"street address 1":      "street_address",
	"town":                  "city",
	"st":                    "state",
	"province":              "state",
	"zip":                   "zip",
	"zip code":              "zip",
	"postal code":           "zip",
	"postcode":              "zip",
	"building limit":        "building_value",
	"bldg value":            "building_value",
	"building tiv":          "building_value",
	"real property":         "building_value",
	"contents limit":        "contents_value",
	"contents tiv":          "contents_value",
	"personal property":     "contents_value",
	"bi":                    "business_income",
	"bi value":              "business_income",
	"business interruption": "business_income",
	"sq ft":                 "square_footage",
	"sqft":                  "square_footage",
	"square feet":           "square_footage",
	"area":                  "square_footage",
	"year":                  "year_built",
	"yr built":              "year_built",
	"construction":          "construction_type",
	"const type":            "construction_type",
	"iso class":             "construction_type",
	"occupancy type":        "occupancy",
	"use":                   "occupancy",
	"sprinkler":             "sprinklered",
	"sprinklers":            "sprinklered",
	"date acquired":         "acquired_date",
	"purchase date":         "acquired_date",
	"effective date":        "acquired_date",
}

// fuzzyRatio bounds the levenshtein distance accepted by the typo fallback,
// as a fraction of the label length.
const fuzzyRatio = 0.25

// ResolveHeader maps loose spreadsheet header text to a column key.
// Resolution order: alias table, exact label match, exact key match, then a
// levenshtein typo fallback against labels. Returns "" when nothing matches;
// callers drop that spreadsheet column.
func (s *Schema) ResolveHeader(raw string) string {
	h := normalizeHeader(raw)
	if h == "" {
		return ""
	}
	if key, ok := s.aliases[h]; ok {
		return key
	}
	for _, c := range s.cols {
		if strings.EqualFold(h, c.Label) || h == c.Key {
			return c.Key
		}
	}
	// Typo fallback: accept a header within fuzzyRatio of a label.
	best, bestDist := "", -1
	for _, c := range s.cols {
		label := strings.ToLower(c.Label)
		limit := int(fuzzyRatio * float64(len(label)))
		if limit < 1 {
			continue
		}
		d := levenshtein.ComputeDistance(h, label)
		if d <= limit && (bestDist < 0 || d < bestDist) {
			best, bestDist = c.Key, d
		}
	}
	return best
}

// LooksLikeHeaderRow reports whether a row of pasted cells should be treated
// as a header row: at least 30% of the cells resolve to a known column, with
// a floor of one match.
func (s *Schema) LooksLikeHeaderRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	matches := 0
	for _, cell := range cells {
		if s.ResolveHeader(cell) != "" {
			matches++
		}
	}
	return matches >= 1 && matches*10 >= len(cells)*3
}
