// Package label lays out station names on fixed-width controls.
package label

import (
	"strings"
	"unicode/utf8"
)

// DefaultLineWidth fits the favorite buttons of the station grid.
const DefaultLineWidth = 12

// Wrap splits name into at most two lines of maxChars characters each.
// Words are packed into the first line in order until the next one would
// overflow; everything after that goes to the second line. A first word
// longer than maxChars is kept whole. A single long token is cut at its
// midpoint.
func Wrap(name string, maxChars int) [2]string {
	name = strings.TrimSpace(name)
	if name == "" {
		return [2]string{}
	}
	if utf8.RuneCountInString(name) <= maxChars {
		return [2]string{name, ""}
	}

	words := strings.Fields(name)
	if len(words) == 1 {
		runes := []rune(name)
		mid := (len(runes) + 1) / 2
		return [2]string{string(runes[:mid]), string(runes[mid:])}
	}

	line1 := words[0]
	length := utf8.RuneCountInString(line1)
	rest := 1
	for ; rest < len(words); rest++ {
		next := length + 1 + utf8.RuneCountInString(words[rest])
		if next > maxChars {
			break
		}
		line1 += " " + words[rest]
		length = next
	}

	return [2]string{line1, strings.Join(words[rest:], " ")}
}
