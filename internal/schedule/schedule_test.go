package schedule

import (
	"errors"
	"testing"

	"narration-backend/internal/apperr"
	"narration-backend/internal/timeutil"
)

func TestDaysNeeded(t *testing.T) {
	tests := []struct {
		name      string
		wordCount int
		want      int
	}{
		{"zero words", 0, 0},
		{"negative words", -100, 0},
		{"one word", 1, 1},
		{"exactly one day", 6975, 1},
		{"one over a day", 6976, 2},
		{"three full days", 20925, 3},
		{"novel length", 90000, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysNeeded(tt.wordCount); got != tt.want {
				t.Errorf("DaysNeeded(%d) = %d, want %d", tt.wordCount, got, tt.want)
			}
		})
	}
}

func TestIsRangeFree(t *testing.T) {
	hold := func(start, end string) Hold {
		a, err := timeutil.ParseDate(start)
		if err != nil {
			t.Fatalf("bad hold start %q: %v", start, err)
		}
		b, err := timeutil.ParseDate(end)
		if err != nil {
			t.Fatalf("bad hold end %q: %v", end, err)
		}
		return Hold{Start: a, End: b}
	}

	holds := []Hold{hold("2025-03-10", "2025-03-12")}

	tests := []struct {
		name    string
		start   string
		numDays int
		want    bool
	}{
		{"clear of the hold", "2025-03-01", 3, true},
		{"last day collides", "2025-03-08", 3, false},
		{"fully inside hold", "2025-03-10", 3, false},
		{"starts on hold end", "2025-03-12", 2, false},
		{"starts day after hold", "2025-03-13", 5, true},
		{"ends day before hold", "2025-03-07", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := timeutil.ParseDate(tt.start)
			if err != nil {
				t.Fatalf("bad start %q: %v", tt.start, err)
			}
			if got := IsRangeFree(start, tt.numDays, holds); got != tt.want {
				t.Errorf("IsRangeFree(%s, %d) = %v, want %v", tt.start, tt.numDays, got, tt.want)
			}
		})
	}

	t.Run("no holds at all", func(t *testing.T) {
		start, _ := timeutil.ParseDate("2025-03-10")
		if !IsRangeFree(start, 30, nil) {
			t.Error("empty calendar should always be free")
		}
	})
}

func TestComputeDiscount(t *testing.T) {
	today, _ := timeutil.ParseDate("2025-01-01")

	tests := []struct {
		name        string
		start       string
		wantPercent int // 0 means no discount
	}{
		{"124 days out hits top tier", "2025-05-05", 8},
		{"exactly 120 days", "2025-05-01", 8},
		{"exactly 90 days", "2025-04-01", 7},
		{"between 60 and 90", "2025-03-15", 6},
		{"exactly 30 days", "2025-01-31", 5},
		{"19 days out gets nothing", "2025-01-20", 0},
		{"same day gets nothing", "2025-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := timeutil.ParseDate(tt.start)
			if err != nil {
				t.Fatalf("bad start %q: %v", tt.start, err)
			}
			got := ComputeDiscount(start, today)
			if tt.wantPercent == 0 {
				if got != nil {
					t.Errorf("ComputeDiscount(%s) = %+v, want nil", tt.start, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ComputeDiscount(%s) = nil, want %d%%", tt.start, tt.wantPercent)
			}
			if got.Percent != tt.wantPercent {
				t.Errorf("ComputeDiscount(%s) = %d%%, want %d%%", tt.start, got.Percent, tt.wantPercent)
			}
		})
	}
}

func TestPropose(t *testing.T) {
	today, _ := timeutil.ParseDate("2025-01-01")
	holdStart, _ := timeutil.ParseDate("2025-03-10")
	holdEnd, _ := timeutil.ParseDate("2025-03-12")
	holds := []Hold{{Start: holdStart, End: holdEnd}}

	t.Run("zero word count is a validation failure", func(t *testing.T) {
		start, _ := timeutil.ParseDate("2025-02-01")
		_, err := Propose(0, start, today, holds)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("want validation error, got %v", err)
		}
	})

	t.Run("past start date is rejected", func(t *testing.T) {
		start, _ := timeutil.ParseDate("2024-12-31")
		_, err := Propose(20925, start, today, holds)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("want validation error, got %v", err)
		}
	})

	t.Run("collision is a conflict", func(t *testing.T) {
		start, _ := timeutil.ParseDate("2025-03-08")
		_, err := Propose(20925, start, today, holds)
		if !errors.Is(err, apperr.ErrConflict) {
			t.Errorf("want conflict error, got %v", err)
		}
	})

	t.Run("free range yields inclusive end date and discount", func(t *testing.T) {
		start, _ := timeutil.ParseDate("2025-05-05")
		res, err := Propose(20925, start, today, holds)
		if err != nil {
			t.Fatalf("Propose: %v", err)
		}
		if res.DaysNeeded != 3 {
			t.Errorf("DaysNeeded = %d, want 3", res.DaysNeeded)
		}
		wantEnd, _ := timeutil.ParseDate("2025-05-07")
		if !res.EndDate.Equal(wantEnd) {
			t.Errorf("EndDate = %s, want %s", timeutil.FormatDate(res.EndDate), timeutil.FormatDate(wantEnd))
		}
		if res.Discount == nil || res.Discount.Percent != 8 {
			t.Errorf("Discount = %+v, want 8%%", res.Discount)
		}
	})

	t.Run("today itself is a legal start", func(t *testing.T) {
		res, err := Propose(6975, today, today, holds)
		if err != nil {
			t.Fatalf("Propose: %v", err)
		}
		if !res.StartDate.Equal(today) || !res.EndDate.Equal(today) {
			t.Errorf("one-day hold should start and end today, got %s..%s",
				timeutil.FormatDate(res.StartDate), timeutil.FormatDate(res.EndDate))
		}
	})
}
