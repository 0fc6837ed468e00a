package registration

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	MonthsPerYear = 12
	// MaxMonthHours is the number of hours in the longest calendar month, rounded down.
	MaxMonthHours = 730
	// MaxYearHours is the number of hours in a non-leap year.
	MaxYearHours     = 8760
	DefaultTolerance = 0.01
)

var monthNames = [MonthsPerYear]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	ErrMonthIndex      = errors.New("month index out of range")
	ErrMonthLocked     = errors.New("month is not editable while hours are distributed evenly")
	ErrPercentageRange = errors.New("percentage must be between 0 and 100")
)

// TotalCheck is the outcome of summing the twelve monthly percentages.
type TotalCheck struct {
	Total   float64 `json:"total"`
	Valid   bool    `json:"valid"`
	Message string  `json:"message,omitempty"`
}

// ParseHours reads a numeric hours string. Empty or malformed input counts as 0.
func ParseHours(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Distribute recomputes the monthly distribution for the given yearly hours.
// With evenly set every month gets an equal, locked share; otherwise each
// month keeps its percentage and hours are derived from it.
func Distribute(totalHours string, evenly bool, months []Month) []Month {
	total := ParseHours(totalHours)
	out := normalizeMonths(months)
	if evenly {
		pct := round2(100.0 / MonthsPerYear)
		for i := range out {
			out[i].Percentage = pct
			out[i].Hours = total / MonthsPerYear
			out[i].Editable = false
		}
		return out
	}
	for i := range out {
		out[i].Hours = total * out[i].Percentage / 100
		out[i].Editable = true
	}
	return out
}

// SetMonthPercentage returns a copy of months with month i set to pct and its
// hours recomputed. Other months are left untouched. The returned check is the
// total re-evaluated with the given tolerance.
func SetMonthPercentage(months []Month, i int, pct float64, totalHours string, tolerance float64) ([]Month, TotalCheck, error) {
	out := normalizeMonths(months)
	if i < 0 || i >= len(out) {
		return nil, TotalCheck{}, ErrMonthIndex
	}
	if !out[i].Editable {
		return nil, TotalCheck{}, ErrMonthLocked
	}
	if !validPercentage(pct) {
		return nil, TotalCheck{}, ErrPercentageRange
	}
	out[i].Percentage = pct
	out[i].Hours = ParseHours(totalHours) * pct / 100
	return out, CheckTotal(out, tolerance), nil
}

// CheckMonth returns an error message when the month holds more hours than
// any calendar month has.
func CheckMonth(m Month) string {
	if m.Hours > MaxMonthHours {
		return MsgMonthHours
	}
	return ""
}

// MonthErrors maps month index to message for every month over MaxMonthHours.
func MonthErrors(months []Month) map[int]string {
	out := map[int]string{}
	for i, m := range months {
		if msg := CheckMonth(m); msg != "" {
			out[i] = msg
		}
	}
	return out
}

// CheckTotal sums the percentages. The total is valid when it deviates from
// 100 by no more than tolerance.
func CheckTotal(months []Month, tolerance float64) TotalCheck {
	var total float64
	for _, m := range months {
		total += m.Percentage
	}
	res := TotalCheck{Total: round2(total), Valid: true}
	diff := total - 100
	if math.Abs(diff) <= tolerance {
		return res
	}
	res.Valid = false
	if diff > 0 {
		res.Message = MsgTotalOver
	} else {
		res.Message = MsgTotalUnder
	}
	return res
}

// Summary is the recalculated distribution together with its checks.
type Summary struct {
	Months      []Month        `json:"monthlyDistribution"`
	MonthErrors map[int]string `json:"monthErrors"`
	Total       TotalCheck     `json:"total"`
}

// Summarize recomputes the distribution and checks it. An even split is
// exact by construction (100/12 per month), so its total is always valid even
// though the displayed two-decimal shares add up to 99.96.
func Summarize(totalHours string, evenly bool, months []Month, tolerance float64) Summary {
	out := Distribute(totalHours, evenly, months)
	res := Summary{Months: out, MonthErrors: MonthErrors(out)}
	if evenly {
		res.Total = TotalCheck{Total: 100, Valid: true}
	} else {
		res.Total = CheckTotal(out, tolerance)
	}
	return res
}

// DefaultMonths returns January..December with zero shares.
func DefaultMonths() []Month {
	out := make([]Month, MonthsPerYear)
	for i, name := range monthNames {
		out[i] = Month{Month: name, Editable: true}
	}
	return out
}

// normalizeMonths copies months into a fresh twelve-entry slice, keeping
// percentages by position and filling in missing month names.
func normalizeMonths(months []Month) []Month {
	out := DefaultMonths()
	for i := 0; i < len(months) && i < MonthsPerYear; i++ {
		out[i].Percentage = months[i].Percentage
		out[i].Hours = months[i].Hours
		out[i].Editable = months[i].Editable
		if strings.TrimSpace(months[i].Month) != "" {
			out[i].Month = months[i].Month
		}
	}
	return out
}

func validPercentage(pct float64) bool {
	return !math.IsNaN(pct) && pct >= 0 && pct <= 100
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
