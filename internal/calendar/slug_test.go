package calendar

import (
	"testing"

	"github.com/ternarybob/macrocal/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Nonfarm Payrolls", "nonfarm-payrolls"},
		{"punctuation", "Fed Chair Powell speaks!", "fed-chair-powell-speaks"},
		{"parens and percent", "Core CPI (YoY) %", "core-cpi-yoy"},
		{"leading trailing junk", "  --ISM Manufacturing--  ", "ism-manufacturing"},
		{"digits kept", "GDP Q3 2025", "gdp-q3-2025"},
		{"collapsed runs", "Retail   Sales...MoM", "retail-sales-mom"},
		{"empty", "", ""},
		{"only punctuation", "?!*", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Nonfarm Payrolls",
		"Core CPI (YoY)",
		"already-a-slug",
		"Fed's Beige Book",
	}

	for _, input := range inputs {
		once := Slugify(input)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		eventName string
		want      models.Category
	}{
		{"Nonfarm Payrolls", models.CategoryEmployment},
		{"Initial Jobless Claims", models.CategoryEmployment},
		{"Consumer Price Index", models.CategoryInflation},
		{"Core PCE Price Index", models.CategoryInflation},
		{"GDP Annualized QoQ", models.CategoryGDP},
		{"ISM Manufacturing PMI", models.CategoryManufacturing},
		{"Housing Starts", models.CategoryHousing},
		{"Retail Sales", models.CategoryConsumer},
		{"Trade Balance", models.CategoryTrade},
		{"FOMC Meeting Minutes", models.CategoryMonetaryPolicy},
		{"Monthly Budget Statement", models.CategoryGovernment},
		{"EIA Crude Oil Inventories", models.CategoryEnergy},
		{"Some Unknown Release", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.eventName, func(t *testing.T) {
			if got := Categorize(tt.eventName); got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.eventName, got, tt.want)
			}
		})
	}
}
