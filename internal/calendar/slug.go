// Package calendar provides the pure normalization and schedule arithmetic
// shared by all calendar sources: slug derivation, keyword classification,
// and recurring-release date resolution.
package calendar

import (
	"strings"

	"github.com/ternarybob/macrocal/internal/models"
)

// Slugify derives a stable identifier from a free-text event name:
// lowercase, every maximal run of characters outside [a-z0-9] collapsed to
// a single hyphen, no leading or trailing hyphen. Total and idempotent.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSep := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}

	return b.String()
}

// categoryKeywords pairs a category with its trigger substrings. Groups
// are evaluated in order and the first match wins, so more specific
// categories must come before generic ones (e.g. "Trade Balance" must hit
// TRADE before any looser term could claim it).
var categoryKeywords = []struct {
	category models.Category
	terms    []string
}{
	{models.CategoryEmployment, []string{"payroll", "employment", "jobless", "jobs", "labor", "unemployment"}},
	{models.CategoryInflation, []string{"cpi", "ppi", "inflation", "price"}},
	{models.CategoryGDP, []string{"gdp", "gross domestic"}},
	{models.CategoryManufacturing, []string{"manufacturing", "ism", "pmi", "industrial", "factory", "durable"}},
	{models.CategoryHousing, []string{"housing", "home", "building", "construction", "mortgage"}},
	{models.CategoryConsumer, []string{"consumer", "retail", "spending", "confidence", "sentiment"}},
	{models.CategoryTrade, []string{"trade", "import", "export", "deficit"}},
	{models.CategoryMonetaryPolicy, []string{"fed", "fomc", "rate", "monetary", "treasury", "beige book"}},
	{models.CategoryGovernment, []string{"government", "budget", "fiscal"}},
	{models.CategoryEnergy, []string{"oil", "energy", "crude", "gas", "petroleum"}},
}

// Categorize assigns a coarse category to an event name by case-insensitive
// substring match against the ordered keyword groups. No match yields OTHER.
func Categorize(eventName string) models.Category {
	lower := strings.ToLower(eventName)
	for _, group := range categoryKeywords {
		for _, term := range group.terms {
			if strings.Contains(lower, term) {
				return group.category
			}
		}
	}
	return models.CategoryOther
}
