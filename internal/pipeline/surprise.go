package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/ternarybob/macrocal/internal/models"
)

// Surprise-percentage thresholds by the importance already on record.
const (
	surpriseThresholdHigh    = 5.0
	surpriseThresholdDefault = 10.0
)

// Surprise describes an actual value that materially missed its forecast.
type Surprise struct {
	Direction string // "above" or "below"
	Pct       float64
	Actual    string
	Forecast  string
}

// measureCleaner strips formatting from reported measures so "256K",
// "$12.5B" and "3.4%" all parse as plain numbers. Unit suffixes are
// dropped rather than scaled; actual and forecast for the same event use
// the same unit, so the ratio is unaffected.
var measureCleaner = strings.NewReplacer("%", "", ",", "", "$", "", "K", "", "M", "", "B", "")

// ParseMeasure parses a reported economic measure into a float.
func ParseMeasure(s string) (float64, bool) {
	clean := strings.TrimSpace(measureCleaner.Replace(s))
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DetectSurprise compares an incoming event against the stored record and
// reports a surprise when a newly published actual deviates from the
// forecast beyond the threshold. It fires only on the transition from
// no-actual to actual, so repeat syncs of the same data stay silent.
// The forecast and importance already on record are authoritative.
func DetectSurprise(prior *models.EconomicEvent, incoming *models.ScrapedEvent) *Surprise {
	if prior == nil || prior.Actual != "" || incoming.Actual == "" {
		return nil
	}
	if prior.Forecast == "" {
		return nil
	}

	actual, ok := ParseMeasure(incoming.Actual)
	if !ok {
		return nil
	}
	forecast, ok := ParseMeasure(prior.Forecast)
	if !ok || forecast == 0 {
		return nil
	}

	pct := math.Abs((actual-forecast)/math.Abs(forecast)) * 100

	threshold := surpriseThresholdDefault
	if prior.Importance == models.ImportanceHigh {
		threshold = surpriseThresholdHigh
	}
	if pct < threshold {
		return nil
	}

	direction := "above"
	if actual < forecast {
		direction = "below"
	}

	return &Surprise{
		Direction: direction,
		Pct:       pct,
		Actual:    incoming.Actual,
		Forecast:  prior.Forecast,
	}
}
