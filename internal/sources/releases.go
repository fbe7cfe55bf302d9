package sources

import (
	"time"

	"github.com/ternarybob/macrocal/internal/calendar"
	"github.com/ternarybob/macrocal/internal/models"
)

// recurringRelease describes one regularly scheduled US economic release.
// Hour and Minute are local release time; calendar.ReleaseTime converts
// them to storage time.
type recurringRelease struct {
	Name       string
	Category   models.Category
	Importance models.Importance
	Hour       int
	Minute     int
	Rule       calendar.Rule
}

// usReleases is the fixed schedule of recurring US releases the forward
// generator projects. Dates are approximations of the typical publication
// pattern; the agencies shift individual months around holidays, and those
// shifts are corrected later when scraped data for the same day arrives.
var usReleases = []recurringRelease{
	{
		Name:       "Nonfarm Payrolls",
		Category:   models.CategoryEmployment,
		Importance: models.ImportanceHigh,
		Hour:       8, Minute: 30,
		Rule: calendar.NthWeekday(1, time.Friday),
	},
	{
		Name:       "Unemployment Rate",
		Category:   models.CategoryEmployment,
		Importance: models.ImportanceHigh,
		Hour:       8, Minute: 30,
		Rule: calendar.NthWeekday(1, time.Friday),
	},
	{
		Name:       "Consumer Price Index",
		Category:   models.CategoryInflation,
		Importance: models.ImportanceHigh,
		Hour:       8, Minute: 30,
		Rule: calendar.DayOfMonth(13),
	},
	{
		Name:       "Producer Price Index",
		Category:   models.CategoryInflation,
		Importance: models.ImportanceHigh,
		Hour:       8, Minute: 30,
		Rule: calendar.DayOfMonth(14),
	},
	{
		Name:       "Retail Sales",
		Category:   models.CategoryConsumer,
		Importance: models.ImportanceHigh,
		Hour:       8, Minute: 30,
		Rule: calendar.DayOfMonth(16),
	},
	{
		Name:       "Initial Jobless Claims",
		Category:   models.CategoryEmployment,
		Importance: models.ImportanceMedium,
		Hour:       8, Minute: 30,
		Rule: calendar.Weekly(time.Thursday),
	},
	{
		Name:       "EIA Crude Oil Inventories",
		Category:   models.CategoryEnergy,
		Importance: models.ImportanceMedium,
		Hour:       10, Minute: 30,
		Rule: calendar.Weekly(time.Wednesday),
	},
	{
		Name:       "ISM Manufacturing PMI",
		Category:   models.CategoryManufacturing,
		Importance: models.ImportanceHigh,
		Hour:       10, Minute: 0,
		Rule: calendar.DayOfMonth(1),
	},
	{
		Name:       "ISM Services PMI",
		Category:   models.CategoryManufacturing,
		Importance: models.ImportanceHigh,
		Hour:       10, Minute: 0,
		Rule: calendar.DayOfMonth(3),
	},
	{
		Name:       "FOMC Meeting Minutes",
		Category:   models.CategoryMonetaryPolicy,
		Importance: models.ImportanceHigh,
		Hour:       14, Minute: 0,
		Rule: calendar.NthWeekday(3, time.Wednesday),
	},
	{
		Name:       "Fed Beige Book",
		Category:   models.CategoryMonetaryPolicy,
		Importance: models.ImportanceMedium,
		Hour:       14, Minute: 0,
		Rule: calendar.NthWeekday(3, time.Wednesday),
	},
	{
		Name:       "GDP",
		Category:   models.CategoryGDP,
		Importance: models.ImportanceHigh,
		Hour:       8, Minute: 30,
		Rule: calendar.LastWeekday(time.Thursday),
	},
	{
		Name:       "PCE Price Index",
		Category:   models.CategoryInflation,
		Importance: models.ImportanceHigh,
		Hour:       8, Minute: 30,
		Rule: calendar.LastWeekday(time.Friday),
	},
	{
		Name:       "Consumer Confidence",
		Category:   models.CategoryConsumer,
		Importance: models.ImportanceMedium,
		Hour:       10, Minute: 0,
		Rule: calendar.LastWeekday(time.Tuesday),
	},
	{
		Name:       "Michigan Consumer Sentiment",
		Category:   models.CategoryConsumer,
		Importance: models.ImportanceMedium,
		Hour:       10, Minute: 0,
		Rule: calendar.NthWeekday(2, time.Friday),
	},
	{
		Name:       "JOLTS Job Openings",
		Category:   models.CategoryEmployment,
		Importance: models.ImportanceHigh,
		Hour:       10, Minute: 0,
		Rule: calendar.NthWeekday(1, time.Tuesday),
	},
	{
		Name:       "ADP Employment Change",
		Category:   models.CategoryEmployment,
		Importance: models.ImportanceMedium,
		Hour:       8, Minute: 15,
		Rule: calendar.NthWeekday(1, time.Wednesday),
	},
	{
		Name:       "Housing Starts",
		Category:   models.CategoryHousing,
		Importance: models.ImportanceMedium,
		Hour:       8, Minute: 30,
		Rule: calendar.DayOfMonth(17),
	},
	{
		Name:       "Existing Home Sales",
		Category:   models.CategoryHousing,
		Importance: models.ImportanceMedium,
		Hour:       10, Minute: 0,
		Rule: calendar.DayOfMonth(21),
	},
	{
		Name:       "New Home Sales",
		Category:   models.CategoryHousing,
		Importance: models.ImportanceMedium,
		Hour:       10, Minute: 0,
		Rule: calendar.DayOfMonth(24),
	},
	{
		Name:       "Durable Goods Orders",
		Category:   models.CategoryManufacturing,
		Importance: models.ImportanceMedium,
		Hour:       8, Minute: 30,
		Rule: calendar.DayOfMonth(26),
	},
	{
		Name:       "Industrial Production",
		Category:   models.CategoryManufacturing,
		Importance: models.ImportanceMedium,
		Hour:       9, Minute: 15,
		Rule: calendar.DayOfMonth(16),
	},
	{
		Name:       "Trade Balance",
		Category:   models.CategoryTrade,
		Importance: models.ImportanceMedium,
		Hour:       8, Minute: 30,
		Rule: calendar.DayOfMonth(5),
	},
	{
		Name:       "Treasury Budget Statement",
		Category:   models.CategoryGovernment,
		Importance: models.ImportanceLow,
		Hour:       14, Minute: 0,
		Rule: calendar.DayOfMonth(12),
	},
}
