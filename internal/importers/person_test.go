package importers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bondery/bondery/internal/entities"
)

func TestKeywordClassifier_LinkedInAlwaysPerson(t *testing.T) {
	classifier := NewKeywordClassifier()

	verdict := classifier.Classify(RawConnectionRecord{
		Platform: entities.PlatformLinkedIn,
		Handle:   "acme-official-shop",
	})
	assert.True(t, verdict.LikelyPerson)
}

func TestKeywordClassifier_BrandKeywordInHandle(t *testing.T) {
	classifier := NewKeywordClassifier()

	verdict := classifier.Classify(instagramRecord("sneaker.shop", ""))
	assert.False(t, verdict.LikelyPerson)
	assert.Contains(t, verdict.Signals, "handle_keyword:shop")
}

func TestKeywordClassifier_BrandKeywordInName(t *testing.T) {
	classifier := NewKeywordClassifier()

	verdict := classifier.Classify(instagramRecord("jane.doe", "Jane Doe Photography"))
	assert.False(t, verdict.LikelyPerson)
	assert.Contains(t, verdict.Signals, "name_keyword:photography")
}

func TestKeywordClassifier_DigitHeavyHandle(t *testing.T) {
	classifier := NewKeywordClassifier()

	verdict := classifier.Classify(instagramRecord("x83729158", ""))
	assert.False(t, verdict.LikelyPerson)
	assert.Contains(t, verdict.Signals, "digit_heavy_handle")
}

func TestKeywordClassifier_PlainPerson(t *testing.T) {
	classifier := NewKeywordClassifier()

	verdict := classifier.Classify(instagramRecord("jane.doe", "Jane Doe"))
	assert.True(t, verdict.LikelyPerson)
	assert.Empty(t, verdict.Signals)
}

func TestKeywordClassifier_CustomKeywords(t *testing.T) {
	classifier := NewKeywordClassifierWithKeywords([]string{"gallery"})

	verdict := classifier.Classify(instagramRecord("jane.gallery", ""))
	assert.False(t, verdict.LikelyPerson)

	verdict = classifier.Classify(instagramRecord("sneaker.shop", ""))
	assert.True(t, verdict.LikelyPerson, "default keywords should not apply")
}
