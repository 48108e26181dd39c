package settlement

import (
	"math"
	"time"

	"narration-backend/internal/models"
	"narration-backend/internal/timeutil"
)

// QBIDeduction is the fixed qualified-business-income deduction applied to
// net income before the tax bill is computed.
const QBIDeduction = 0.20

// Settlement is the derived financial picture for one engagement. All
// monetary figures are integer cents so repeated recomputation is
// bit-identical and free of float drift.
type Settlement struct {
	PFHCount     float64 `json:"pfh_count"`
	GrossBase    int64   `json:"gross_base_cents"`
	ExtraRevenue int64   `json:"extra_revenue_cents"`
	GrossTotal   int64   `json:"gross_total_cents"`
	Expenses     int64   `json:"expenses_cents"`
	NetBeforeTax int64   `json:"net_before_tax_cents"`

	TaxableIncome    int64   `json:"taxable_income_cents"`
	TaxBill          int64   `json:"tax_bill_cents"`
	TakeHome         int64   `json:"take_home_cents"`
	EffectiveTaxRate float64 `json:"effective_tax_rate"`

	// Display-only comparison without the QBI deduction. The QBI-adjusted
	// TakeHome above is the canonical figure.
	TakeHomeNoQBI int64 `json:"take_home_no_qbi_cents"`

	TotalHours     float64 `json:"total_hours"`
	RealHourlyRate int64   `json:"real_hourly_rate_cents"` // take-home cents per logged hour
}

// Cents converts a dollar amount to integer cents, rounding half away from zero
func Cents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// Settle computes the full settlement pipeline. wordCount supplies the
// default PFH count when the invoice leaves it unset. Pure: no persistence,
// no hidden state.
func Settle(inv *models.Invoice, wordCount int, logs []models.SessionLog) Settlement {
	pfhCount := 0.0
	if inv.PFHCount != nil && *inv.PFHCount > 0 {
		pfhCount = *inv.PFHCount
	} else if wordCount > 0 {
		pfhCount = float64(wordCount) / models.WordsPerFinishedHour
	}

	grossBase := Cents(pfhCount * inv.PFHRate)

	var extraRevenue int64
	for _, item := range inv.LineItems {
		extraRevenue += Cents(item.Amount)
	}

	grossTotal := grossBase + extraRevenue
	expenses := Cents(pfhCount*inv.PozotronRate) + Cents(inv.OtherExpenses)
	netBeforeTax := grossTotal - expenses

	taxableIncome := int64(math.Round(float64(netBeforeTax) * (1 - QBIDeduction)))
	taxBill := int64(math.Round(float64(taxableIncome) * inv.EstTaxRate / 100))
	takeHome := netBeforeTax - taxBill

	effectiveTaxRate := 0.0
	if netBeforeTax > 0 {
		effectiveTaxRate = float64(netBeforeTax-takeHome) / float64(netBeforeTax)
	}

	taxBillNoQBI := int64(math.Round(float64(netBeforeTax) * inv.EstTaxRate / 100))
	takeHomeNoQBI := netBeforeTax - taxBillNoQBI

	var totalHours float64
	for _, l := range logs {
		totalHours += l.DurationHrs
	}

	var realHourly int64
	if totalHours > 0 {
		realHourly = int64(math.Round(float64(takeHome) / totalHours))
	}

	return Settlement{
		PFHCount:         pfhCount,
		GrossBase:        grossBase,
		ExtraRevenue:     extraRevenue,
		GrossTotal:       grossTotal,
		Expenses:         expenses,
		NetBeforeTax:     netBeforeTax,
		TaxableIncome:    taxableIncome,
		TaxBill:          taxBill,
		TakeHome:         takeHome,
		EffectiveTaxRate: effectiveTaxRate,
		TakeHomeNoQBI:    takeHomeNoQBI,
		TotalHours:       totalHours,
		RealHourlyRate:   realHourly,
	}
}

// OverdueDays returns how many days past due the invoice is as of today
// (negative means not yet due). ok is false when the invoice is paid or has
// no due date; the figure is informational and never drives escalation.
func OverdueDays(inv *models.Invoice, today time.Time) (days int, ok bool) {
	if inv.LedgerTab == models.LedgerPaid || inv.DueDate == nil {
		return 0, false
	}
	return timeutil.DaysBetween(*inv.DueDate, today), true
}

// NetDueDate derives the payment deadline from the invoiced date under
// NET-15 terms
func NetDueDate(invoiced time.Time) time.Time {
	return timeutil.AddDays(invoiced, models.NetTermDays)
}

// NextReminderLevel increments an escalation level by at most one, clamped
// to the maximum severity
func NextReminderLevel(current int) int {
	if current < 0 {
		current = 0
	}
	if current >= models.MaxReminders {
		return models.MaxReminders
	}
	return current + 1
}
