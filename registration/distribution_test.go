package registration

import (
	"errors"
	"math"
	"testing"
)

func sumMonths(months []Month) (pct, hours float64) {
	for _, m := range months {
		pct += m.Percentage
		hours += m.Hours
	}
	return pct, hours
}

func TestDistributeEvenly(t *testing.T) {
	for _, total := range []string{"0", "1", "4380", "8760", "1234.5"} {
		months := Distribute(total, true, nil)
		if len(months) != MonthsPerYear {
			t.Fatalf("total %s: expected 12 months, got %d", total, len(months))
		}
		pct, hours := sumMonths(months)
		if math.Abs(hours-ParseHours(total)) > 1e-6 {
			t.Errorf("total %s: hours sum %.4f", total, hours)
		}
		if math.Abs(pct-100) > 0.05 {
			t.Errorf("total %s: percentage sum %.4f", total, pct)
		}
		for i, m := range months {
			if m.Percentage != 8.33 {
				t.Errorf("month %d: percentage %.2f", i, m.Percentage)
			}
			if m.Editable {
				t.Errorf("month %d should be locked", i)
			}
		}
	}
}

func TestDistributeNamesMonths(t *testing.T) {
	months := Distribute("", false, nil)
	if months[0].Month != "January" || months[11].Month != "December" {
		t.Fatalf("unexpected month names: %s..%s", months[0].Month, months[11].Month)
	}
	for _, m := range months {
		if m.Hours != 0 || !m.Editable {
			t.Fatalf("unexpected month %+v", m)
		}
	}
}

func TestDistributeDerivesHoursFromPercentage(t *testing.T) {
	in := DefaultMonths()
	in[2].Percentage = 25
	in[2].Hours = 9999 // stale, must be recomputed
	out := Distribute("4000", false, in)
	if out[2].Hours != 1000 {
		t.Fatalf("expected 1000 hours, got %.2f", out[2].Hours)
	}
	if in[2].Hours != 9999 {
		t.Fatalf("input slice was modified")
	}
}

func TestSetMonthPercentage(t *testing.T) {
	months := Distribute("6000", false, nil)
	for i := range months {
		months[i].Percentage = 5
		months[i].Hours = 300
	}
	out, check, err := SetMonthPercentage(months, 4, 12.5, "6000", DefaultTolerance)
	if err != nil {
		t.Fatalf("SetMonthPercentage: %v", err)
	}
	if out[4].Hours != 750 || out[4].Percentage != 12.5 {
		t.Fatalf("month 4: %+v", out[4])
	}
	for i, m := range out {
		if i == 4 {
			continue
		}
		if m.Hours != 300 || m.Percentage != 5 {
			t.Errorf("month %d changed: %+v", i, m)
		}
	}
	if check.Valid || check.Total != 67.5 || check.Message != MsgTotalUnder {
		t.Errorf("unexpected total check %+v", check)
	}
	if msg := CheckMonth(out[4]); msg != MsgMonthHours {
		t.Errorf("750 hours should be flagged, got %q", msg)
	}
}

func TestSetMonthPercentageErrors(t *testing.T) {
	free := Distribute("100", false, nil)
	if _, _, err := SetMonthPercentage(free, 12, 10, "100", DefaultTolerance); !errors.Is(err, ErrMonthIndex) {
		t.Errorf("expected ErrMonthIndex, got %v", err)
	}
	if _, _, err := SetMonthPercentage(free, 0, 101, "100", DefaultTolerance); !errors.Is(err, ErrPercentageRange) {
		t.Errorf("expected ErrPercentageRange, got %v", err)
	}
	locked := Distribute("100", true, nil)
	if _, _, err := SetMonthPercentage(locked, 0, 10, "100", DefaultTolerance); !errors.Is(err, ErrMonthLocked) {
		t.Errorf("expected ErrMonthLocked, got %v", err)
	}
}

func TestCheckMonthBoundary(t *testing.T) {
	if msg := CheckMonth(Month{Hours: 730}); msg != "" {
		t.Errorf("730 hours should pass, got %q", msg)
	}
	if msg := CheckMonth(Month{Hours: 730.01}); msg == "" {
		t.Errorf("730.01 hours should fail")
	}
}

func TestCheckTotal(t *testing.T) {
	cases := []struct {
		name  string
		pcts  []float64
		valid bool
		msg   string
	}{
		{"exact", []float64{10, 10, 10, 10, 10, 10, 10, 10, 5, 5, 5, 5}, true, ""},
		{"within tolerance", []float64{50, 50.005}, true, ""},
		{"over", []float64{60, 50}, false, MsgTotalOver},
		{"under", []float64{60, 30}, false, MsgTotalUnder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			months := make([]Month, len(tc.pcts))
			for i, p := range tc.pcts {
				months[i].Percentage = p
			}
			got := CheckTotal(months, DefaultTolerance)
			if got.Valid != tc.valid || got.Message != tc.msg {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestParseHours(t *testing.T) {
	cases := map[string]float64{"": 0, "abc": 0, " 120 ": 120, "87.5": 87.5, "NaN": 0}
	for in, want := range cases {
		if got := ParseHours(in); got != want {
			t.Errorf("ParseHours(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	even := Summarize("8760", true, nil, DefaultTolerance)
	if !even.Total.Valid || even.Total.Total != 100 || len(even.MonthErrors) != 0 {
		t.Fatalf("even split: %+v", even.Total)
	}

	months := DefaultMonths()
	months[6].Percentage = 100
	custom := Summarize("8760", false, months, DefaultTolerance)
	if !custom.Total.Valid {
		t.Fatalf("100 percent in July should be a valid total: %+v", custom.Total)
	}
	if custom.MonthErrors[6] != MsgMonthHours {
		t.Fatalf("8760 hours in July must be flagged, got %v", custom.MonthErrors)
	}
}
