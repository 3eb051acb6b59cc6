// Package email holds the address checks used when an account is created.
package email

import (
	"net/mail"
	"strings"
	"unicode"
)

// Valid reports whether addr is a bare mailbox (no display name) whose domain
// has at least one dot.
func Valid(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr || parsed.Name != "" {
		return false
	}
	at := strings.LastIndexByte(addr, '@')
	domain := addr[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// NameParts guesses a first and last name from the local part of addr.
// "mia.north+ops@polar.example" gives ("Mia", "North"). The last name is
// empty when the local part has a single word.
func NameParts(addr string) (first, last string) {
	local, _, _ := strings.Cut(addr, "@")
	local, _, _ = strings.Cut(local, "+")
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return title(words[0]), ""
	default:
		return title(words[0]), title(words[len(words)-1])
	}
}

func title(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
