package importers

import (
	"strings"
	"unicode"

	"github.com/bondery/bondery/internal/entities"
)

// Verdict is the outcome of a person-vs-brand classification, with the
// signals that produced it so the heuristic can be tuned and tested.
type Verdict struct {
	LikelyPerson bool
	Signals      []string
}

// PersonClassifier decides whether a connection record looks like an
// individual rather than a brand, shop or influencer account. The verdict
// is best-effort: it drives default selection and preview ordering only.
type PersonClassifier interface {
	Classify(record RawConnectionRecord) Verdict
}

// Default signal set: keywords typical of business and media accounts.
var defaultBrandKeywords = []string{
	"official", "shop", "store", "boutique", "studio", "agency",
	"team", "club", "brand", "media", "news", "magazine", "podcast",
	"fitness", "coach", "marketing", "design", "photography", "travel",
	"daily", "online", "global", "world", "hq",
}

// KeywordClassifier flags accounts whose handle or name matches brand
// keywords, or whose handle looks machine-generated (digit-heavy).
type KeywordClassifier struct {
	brandKeywords []string
}

// NewKeywordClassifier creates a classifier with the default signal set.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{brandKeywords: defaultBrandKeywords}
}

// NewKeywordClassifierWithKeywords creates a classifier with a custom
// keyword list.
func NewKeywordClassifierWithKeywords(keywords []string) *KeywordClassifier {
	return &KeywordClassifier{brandKeywords: keywords}
}

// Classify implements PersonClassifier. LinkedIn connections are always
// people; the heuristic only examines Instagram accounts.
func (c *KeywordClassifier) Classify(record RawConnectionRecord) Verdict {
	if record.Platform != entities.PlatformInstagram {
		return Verdict{LikelyPerson: true}
	}

	handle := NormalizeHandle(record.Handle)
	name := strings.ToLower(record.DisplayName)

	var signals []string
	for _, keyword := range c.brandKeywords {
		if strings.Contains(handle, keyword) {
			signals = append(signals, "handle_keyword:"+keyword)
		} else if name != "" && containsWord(name, keyword) {
			signals = append(signals, "name_keyword:"+keyword)
		}
	}

	if digitShare(handle) > 0.4 {
		signals = append(signals, "digit_heavy_handle")
	}

	return Verdict{LikelyPerson: len(signals) == 0, Signals: signals}
}

func containsWord(text, word string) bool {
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if w == word {
			return true
		}
	}
	return false
}

func digitShare(handle string) float64 {
	if handle == "" {
		return 0
	}
	digits := 0
	for _, r := range handle {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) / float64(len(handle))
}
