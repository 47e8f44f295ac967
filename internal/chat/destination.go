package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"flight-assistant/internal/types"
)

const destinationKeyword = "destino:"

// Filter narrows a flight list. The zero value keeps every flight.
type Filter struct {
	Destination string
}

// ExtractDestination looks for "destino:" (any case), optional whitespace and
// a word made of letters, digits or underscores. The first occurrence
// followed by such a word wins and the word is returned upper-cased. Only
// the user's own text is ever passed here.
func ExtractDestination(raw string) (Filter, bool) {
	for i := 0; i+len(destinationKeyword) <= len(raw); i++ {
		if !hasPrefixFoldASCII(raw[i:], destinationKeyword) {
			continue
		}
		j := skipSpace(raw, i+len(destinationKeyword))
		k := j
		for k < len(raw) && isWordByte(raw[k]) {
			k++
		}
		if k > j {
			return Filter{Destination: strings.ToUpper(raw[j:k])}, true
		}
	}
	return Filter{}, false
}

// Apply keeps the flights whose arrival code equals the destination exactly.
// Without a destination the input slice is returned as is.
func (f Filter) Apply(flights []types.Flight) []types.Flight {
	if f.Destination == "" {
		return flights
	}
	out := make([]types.Flight, 0, len(flights))
	for _, fl := range flights {
		if fl.Arrival.IATACode == f.Destination {
			out = append(out, fl)
		}
	}
	return out
}

func hasPrefixFoldASCII(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != prefix[i] {
			return false
		}
	}
	return true
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) && r != '\uFEFF' {
			break
		}
		i += size
	}
	return i
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
