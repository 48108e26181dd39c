package settlement

import (
	"reflect"
	"testing"

	"narration-backend/internal/models"
	"narration-backend/internal/timeutil"
)

func f(v float64) *float64 { return &v }

func TestSettleReferenceScenario(t *testing.T) {
	// 10 finished hours at $250/PFH, $14/PFH proofing pass-through, 25% tax
	inv := &models.Invoice{
		PFHRate:      250,
		PFHCount:     f(10),
		PozotronRate: 14,
		EstTaxRate:   25,
	}

	s := Settle(inv, 0, nil)

	if s.GrossTotal != 250000 {
		t.Errorf("GrossTotal = %d cents, want 250000", s.GrossTotal)
	}
	if s.Expenses != 14000 {
		t.Errorf("Expenses = %d cents, want 14000", s.Expenses)
	}
	if s.NetBeforeTax != 236000 {
		t.Errorf("NetBeforeTax = %d cents, want 236000", s.NetBeforeTax)
	}
	if s.TaxableIncome != 188800 {
		t.Errorf("TaxableIncome = %d cents, want 188800", s.TaxableIncome)
	}
	if s.TaxBill != 47200 {
		t.Errorf("TaxBill = %d cents, want 47200", s.TaxBill)
	}
	if s.TakeHome != 188800 {
		t.Errorf("TakeHome = %d cents, want 188800", s.TakeHome)
	}
}

func TestSettleDefaultsPFHFromWordCount(t *testing.T) {
	inv := &models.Invoice{PFHRate: 100}
	s := Settle(inv, 93000, nil)

	if s.PFHCount != 10 {
		t.Errorf("PFHCount = %v, want 10 (93000/9300)", s.PFHCount)
	}
	if s.GrossBase != 100000 {
		t.Errorf("GrossBase = %d cents, want 100000", s.GrossBase)
	}
}

func TestSettleLineItemsAndHours(t *testing.T) {
	inv := &models.Invoice{
		PFHRate:       200,
		PFHCount:      f(5),
		PozotronRate:  10,
		EstTaxRate:    20,
		OtherExpenses: 25.50,
		LineItems: []models.LineItem{
			{Description: "rush fee", Amount: 150},
			{Description: "character voices", Amount: 49.99},
		},
	}
	logs := []models.SessionLog{
		{DurationHrs: 2.5},
		{DurationHrs: 1.5},
		{DurationHrs: 4},
	}

	s := Settle(inv, 0, logs)

	if s.ExtraRevenue != 19999 {
		t.Errorf("ExtraRevenue = %d cents, want 19999", s.ExtraRevenue)
	}
	if s.GrossTotal != 100000+19999 {
		t.Errorf("GrossTotal = %d cents, want %d", s.GrossTotal, 100000+19999)
	}
	if s.Expenses != 5000+2550 {
		t.Errorf("Expenses = %d cents, want %d", s.Expenses, 5000+2550)
	}
	if s.TotalHours != 8 {
		t.Errorf("TotalHours = %v, want 8", s.TotalHours)
	}
	if s.RealHourlyRate != s.TakeHome/8 {
		t.Errorf("RealHourlyRate = %d, want %d", s.RealHourlyRate, s.TakeHome/8)
	}
}

func TestSettleZeroAndNegativeEdges(t *testing.T) {
	t.Run("no hours means zero hourly rate", func(t *testing.T) {
		s := Settle(&models.Invoice{PFHRate: 250, PFHCount: f(10)}, 0, nil)
		if s.RealHourlyRate != 0 {
			t.Errorf("RealHourlyRate = %d, want 0", s.RealHourlyRate)
		}
	})

	t.Run("negative net zeroes the effective rate", func(t *testing.T) {
		inv := &models.Invoice{PFHRate: 10, PFHCount: f(1), OtherExpenses: 500, EstTaxRate: 25}
		s := Settle(inv, 0, nil)
		if s.NetBeforeTax >= 0 {
			t.Fatalf("scenario should be underwater, NetBeforeTax = %d", s.NetBeforeTax)
		}
		if s.EffectiveTaxRate != 0 {
			t.Errorf("EffectiveTaxRate = %v, want 0 for non-positive net", s.EffectiveTaxRate)
		}
	})
}

func TestSettleMonotonicity(t *testing.T) {
	base := func(pfh, taxRate float64) Settlement {
		return Settle(&models.Invoice{
			PFHRate:      250,
			PFHCount:     f(pfh),
			PozotronRate: 14,
			EstTaxRate:   taxRate,
		}, 0, nil)
	}

	t.Run("gross total never decreases with pfh count", func(t *testing.T) {
		prev := base(0, 25).GrossTotal
		for pfh := 1.0; pfh <= 50; pfh++ {
			cur := base(pfh, 25).GrossTotal
			if cur < prev {
				t.Fatalf("GrossTotal decreased at pfh=%v: %d < %d", pfh, cur, prev)
			}
			prev = cur
		}
	})

	t.Run("take home never increases with tax rate", func(t *testing.T) {
		prev := base(10, 0).TakeHome
		for rate := 1.0; rate <= 50; rate++ {
			cur := base(10, rate).TakeHome
			if cur > prev {
				t.Fatalf("TakeHome increased at rate=%v%%: %d > %d", rate, cur, prev)
			}
			prev = cur
		}
	})
}

func TestSettleIsPure(t *testing.T) {
	inv := &models.Invoice{
		PFHRate:       187.50,
		PFHCount:      f(7.3),
		PozotronRate:  14,
		EstTaxRate:    22.5,
		OtherExpenses: 42.42,
		LineItems:     []models.LineItem{{Amount: 99.99}},
	}
	logs := []models.SessionLog{{DurationHrs: 3.7}, {DurationHrs: 0.8}}

	first := Settle(inv, 67890, logs)
	second := Settle(inv, 67890, logs)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Settle with identical inputs differs:\n%+v\n%+v", first, second)
	}
}

func TestOverdueDays(t *testing.T) {
	due, _ := timeutil.ParseDate("2025-06-15")
	today, _ := timeutil.ParseDate("2025-06-20")

	t.Run("past due", func(t *testing.T) {
		inv := &models.Invoice{LedgerTab: models.LedgerWaiting, DueDate: &due}
		days, ok := OverdueDays(inv, today)
		if !ok || days != 5 {
			t.Errorf("OverdueDays = (%d, %v), want (5, true)", days, ok)
		}
	})

	t.Run("not yet due is negative", func(t *testing.T) {
		early, _ := timeutil.ParseDate("2025-06-10")
		inv := &models.Invoice{LedgerTab: models.LedgerOpen, DueDate: &due}
		days, ok := OverdueDays(inv, early)
		if !ok || days != -5 {
			t.Errorf("OverdueDays = (%d, %v), want (-5, true)", days, ok)
		}
	})

	t.Run("paid invoices report nothing", func(t *testing.T) {
		inv := &models.Invoice{LedgerTab: models.LedgerPaid, DueDate: &due}
		if _, ok := OverdueDays(inv, today); ok {
			t.Error("paid invoice should not report overdue days")
		}
	})

	t.Run("no due date reports nothing", func(t *testing.T) {
		inv := &models.Invoice{LedgerTab: models.LedgerOpen}
		if _, ok := OverdueDays(inv, today); ok {
			t.Error("invoice without due date should not report overdue days")
		}
	})
}

func TestNetDueDate(t *testing.T) {
	tests := []struct {
		invoiced string
		want     string
	}{
		{"2025-01-01", "2025-01-16"},
		{"2025-01-31", "2025-02-15"}, // crosses the month boundary
		{"2024-02-20", "2024-03-06"}, // leap February
		{"2025-03-01", "2025-03-16"}, // spans the DST jump
	}
	for _, tt := range tests {
		invoiced, err := timeutil.ParseDate(tt.invoiced)
		if err != nil {
			t.Fatalf("bad invoiced date %q: %v", tt.invoiced, err)
		}
		if got := timeutil.FormatDate(NetDueDate(invoiced)); got != tt.want {
			t.Errorf("NetDueDate(%s) = %s, want %s", tt.invoiced, got, tt.want)
		}
	}
}

func TestNextReminderLevel(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 3}, // clamped, never wraps
		{7, 3}, // out-of-range stored value stays clamped
		{-1, 1},
	}
	for _, tt := range tests {
		if got := NextReminderLevel(tt.current); got != tt.want {
			t.Errorf("NextReminderLevel(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}
