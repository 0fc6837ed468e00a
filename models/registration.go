package models

import (
	"time"

	"xrgi-portal/backend/registration"
)

type Registration struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"user_id"`
	XRGIID    string            `json:"xrgi_id"`
	Form      registration.Form `json:"form"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type DistributionRequest struct {
	ExpectedOperatingHours string               `json:"expectedOperatingHours"`
	DistributeHoursEvenly  bool                 `json:"distributeHoursEvenly"`
	MonthlyDistribution    []registration.Month `json:"monthlyDistribution"`
	// EditMonth and EditPercentage change a single month when set.
	EditMonth      *int     `json:"editMonth"`
	EditPercentage *float64 `json:"editPercentage"`
}

type InstallationRequest struct {
	InstallationRequested bool                            `json:"installationRequested"`
	InstallationTiming    registration.InstallationTiming `json:"installationTiming"`
}
