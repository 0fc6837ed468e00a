package controllers

import (
	"time"

	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
	"xrgi-portal/backend/utils"
)

func distributionWorkbook(xrgiID string, f registration.Form) ([]byte, error) {
	sum := registration.Summarize(f.ExpectedOperatingHours, f.DistributeHoursEvenly, f.MonthlyDistribution, registration.DefaultTolerance)
	wb, err := utils.NewWorkbook("Distribution")
	if err != nil {
		return nil, err
	}
	rows := [][]any{
		{"XRGI ID", xrgiID},
		{"Expected operating hours", registration.ParseHours(f.ExpectedOperatingHours)},
		{"Distributed evenly", f.DistributeHoursEvenly},
		{},
		{"Month", "Percentage", "Hours"},
	}
	for _, r := range rows {
		if err := wb.AppendRow(r...); err != nil {
			return nil, err
		}
	}
	if err := wb.Bold(wb.Row()); err != nil {
		return nil, err
	}
	for _, m := range sum.Months {
		if err := wb.AppendRow(m.Month, m.Percentage, round2(m.Hours)); err != nil {
			return nil, err
		}
	}
	if err := wb.AppendRow("Total", sum.Total.Total, round2(registration.ParseHours(f.ExpectedOperatingHours))); err != nil {
		return nil, err
	}
	if err := wb.Bold(wb.Row()); err != nil {
		return nil, err
	}
	return wb.Bytes()
}

func reportsWorkbook(reports []models.ServiceReport) ([]byte, error) {
	wb, err := utils.NewWorkbook("Reports")
	if err != nil {
		return nil, err
	}
	if err := wb.AppendRow("ID", "XRGI ID", "Call", "Technician", "Visit date", "Work performed", "Findings", "Summary"); err != nil {
		return nil, err
	}
	if err := wb.Bold(1); err != nil {
		return nil, err
	}
	for _, r := range reports {
		var call any
		if r.CallID != nil {
			call = *r.CallID
		}
		if err := wb.AppendRow(r.ID, r.XRGIID, call, r.Technician, r.VisitDate.Format(time.DateOnly), r.WorkPerformed, r.Findings, r.Summary); err != nil {
			return nil, err
		}
	}
	return wb.Bytes()
}
