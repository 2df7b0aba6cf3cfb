package importers

import (
	"strings"
	"unicode"
)

// SplitName splits a display name into first, middle and last parts using
// whitespace. Two words become first+last; anything in between the first
// and last word is collapsed into the middle name.
func SplitName(name string) (first, middle, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return parts[0], "", ""
	case 2:
		return parts[0], "", parts[1]
	default:
		return parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// HumanizeHandle derives a readable name from a platform handle when the
// export carries no display name: separators become spaces, digits are
// dropped, words are title-cased. Returns "" when nothing name-like is left.
func HumanizeHandle(handle string) string {
	var b strings.Builder
	for _, r := range handle {
		switch {
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(' ')
		case unicode.IsDigit(r):
			// skip
		default:
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
