// Package string holds the input normalisation shared by the HTTP handlers.
package string

import (
	"strings"
	"unicode"
)

// TrimStrings trims each field in place. Nil pointers are skipped.
func TrimStrings(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePlate uppercases a plate and collapses runs of whitespace.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), " "))
}

// ToSnakeCase converts a Go identifier, keeping initialisms together:
// "FleetSetID" becomes "fleet_set_id".
func ToSnakeCase(ident string) string {
	rs := []rune(ident)
	out := make([]rune, 0, len(rs)+4)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(rs[i-1])
			endsInitialism := i+1 < len(rs) && unicode.IsUpper(rs[i-1]) && unicode.IsLower(rs[i+1])
			if prevLower || endsInitialism {
				out = append(out, '_')
			}
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
