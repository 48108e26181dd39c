package schedule

import (
	"time"

	"narration-backend/internal/apperr"
	"narration-backend/internal/timeutil"
)

// WordsPerDay is the fixed narration throughput used to turn a manuscript
// word count into a consecutive-day calendar block.
const WordsPerDay = 6975

// Hold is an existing inclusive [Start, End] calendar reservation
type Hold struct {
	EngagementID int       `json:"engagement_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// DiscountTier is a lead-time pricing discount
type DiscountTier struct {
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// Reservation is a proposed calendar block, not yet persisted
type Reservation struct {
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	DaysNeeded int           `json:"days_needed"`
	Discount   *DiscountTier `json:"discount,omitempty"`
}

// discountTiers maps minimum lead days to the discount percent, highest
// threshold first.
var discountTiers = []struct {
	leadDays int
	percent  int
	label    string
}{
	{120, 8, "120+ days out"},
	{90, 7, "90+ days out"},
	{60, 6, "60+ days out"},
	{30, 5, "30+ days out"},
}

// DaysNeeded returns the number of consecutive narration days a word count
// requires. Zero or negative word counts yield 0; callers must treat that
// as a validation failure, not a zero-day hold.
func DaysNeeded(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + WordsPerDay - 1) / WordsPerDay
}

// IsRangeFree reports whether every day in [start, start+numDays-1] avoids
// all existing holds. A single colliding day rejects the whole range.
func IsRangeFree(start time.Time, numDays int, holds []Hold) bool {
	start = timeutil.DateOnly(start)
	for offset := 0; offset < numDays; offset++ {
		candidate := timeutil.AddDays(start, offset)
		for _, h := range holds {
			if !candidate.Before(timeutil.DateOnly(h.Start)) && !candidate.After(timeutil.DateOnly(h.End)) {
				return false
			}
		}
	}
	return true
}

// ComputeDiscount returns the lead-time discount tier for a start date, or
// nil below the lowest threshold. Dates are compared at date-only
// granularity.
func ComputeDiscount(start, today time.Time) *DiscountTier {
	leadDays := timeutil.DaysBetween(today, start)
	for _, tier := range discountTiers {
		if leadDays >= tier.leadDays {
			return &DiscountTier{Percent: tier.percent, Label: tier.label}
		}
	}
	return nil
}

// Propose builds a reservation for a word count starting on startDate,
// checking it against existing holds. today anchors the past-date and
// lead-time checks.
func Propose(wordCount int, startDate, today time.Time, holds []Hold) (*Reservation, error) {
	days := DaysNeeded(wordCount)
	if days == 0 {
		return nil, apperr.Validation("word count must be positive to compute a reservation")
	}

	start := timeutil.DateOnly(startDate)
	today = timeutil.DateOnly(today)
	if start.Before(today) {
		return nil, apperr.Validation("reservation start date %s is in the past", timeutil.FormatDate(start))
	}

	if !IsRangeFree(start, days, holds) {
		return nil, apperr.Conflict("range starting %s for %d days collides with an existing hold", timeutil.FormatDate(start), days)
	}

	return &Reservation{
		StartDate:  start,
		EndDate:    timeutil.AddDays(start, days-1),
		DaysNeeded: days,
		Discount:   ComputeDiscount(start, today),
	}, nil
}
