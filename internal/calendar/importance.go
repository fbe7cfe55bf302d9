package calendar

import (
	"strconv"
	"strings"

	"github.com/ternarybob/macrocal/internal/models"
)

// highImpactTerms mark releases that routinely move markets. Checked
// before mediumImpactTerms; no match defaults to LOW.
var highImpactTerms = []string{
	"nonfarm payroll",
	"non-farm payroll",
	"unemployment rate",
	"cpi",
	"consumer price",
	"gdp",
	"fed",
	"fomc",
	"interest rate",
	"ppi",
	"retail sales",
	"ism manufacturing",
	"ism services",
	"pce",
	"personal consumption",
	"job openings",
	"jolts",
}

var mediumImpactTerms = []string{
	"housing starts",
	"building permits",
	"durable goods",
	"consumer confidence",
	"michigan",
	"trade balance",
	"industrial production",
	"existing home",
	"new home",
	"adp",
	"initial claims",
	"jobless claims",
	"wholesale",
	"import price",
	"export price",
	"beige book",
}

// InferImportance assigns a significance level to an event. A source hint,
// when present and recognized, wins outright: either a literal
// "high"/"medium"/"low" (case-insensitive) or a numeric rank where higher
// means more important (3+ -> HIGH, 2 -> MEDIUM, 1 -> LOW). Otherwise the
// static keyword lists decide, HIGH checked before MEDIUM, defaulting to
// LOW. Deterministic and total.
func InferImportance(eventName, sourceHint string) models.Importance {
	if hint := strings.TrimSpace(sourceHint); hint != "" {
		if level, ok := models.ParseImportance(hint); ok {
			return level
		}
		if n, err := strconv.Atoi(hint); err == nil {
			switch {
			case n >= 3:
				return models.ImportanceHigh
			case n == 2:
				return models.ImportanceMedium
			case n == 1:
				return models.ImportanceLow
			}
		}
	}

	lower := strings.ToLower(eventName)
	for _, term := range highImpactTerms {
		if strings.Contains(lower, term) {
			return models.ImportanceHigh
		}
	}
	for _, term := range mediumImpactTerms {
		if strings.Contains(lower, term) {
			return models.ImportanceMedium
		}
	}
	return models.ImportanceLow
}
