package models

import "time"

// Device statuses shown on the dashboard.
const (
	StatusPending    = "pending"
	StatusRunning    = "running"
	StatusServiceDue = "service_due"
	StatusFault      = "fault"
	StatusOffline    = "offline"
)

var DeviceStatuses = []string{StatusPending, StatusRunning, StatusServiceDue, StatusFault, StatusOffline}

// ValidStatus reports whether s is one of DeviceStatuses.
func ValidStatus(s string) bool {
	for _, st := range DeviceStatuses {
		if st == s {
			return true
		}
	}
	return false
}

type Device struct {
	XRGIID         string         `json:"xrgi_id"`
	Name           string         `json:"name"`
	Model          string         `json:"model"`
	Status         string         `json:"status"`
	SiteCity       string         `json:"site_city"`
	SiteCountry    string         `json:"site_country"`
	RegistrationID *string        `json:"registration_id"`
	InstalledAt    *time.Time     `json:"installed_at"`
	OperatingHours float64        `json:"operating_hours"`
	Starts         int64          `json:"starts"`
	ElectricityKWh float64        `json:"electricity_kwh"`
	HeatKWh        float64        `json:"heat_kwh"`
	Configuration  map[string]any `json:"configuration"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type DeviceStatistics struct {
	XRGIID          string  `json:"xrgi_id"`
	OperatingHours  float64 `json:"operating_hours"`
	Starts          int64   `json:"starts"`
	ElectricityKWh  float64 `json:"electricity_kwh"`
	HeatKWh         float64 `json:"heat_kwh"`
	HoursPerStart   float64 `json:"hours_per_start"`
	AvailabilityPct float64 `json:"availability_pct"`
	OpenCalls       int     `json:"open_calls"`
	Reports         int     `json:"reports"`
}

type ServiceCall struct {
	ID          int64      `json:"id"`
	XRGIID      string     `json:"xrgi_id"`
	Status      string     `json:"status"` // open | closed
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Technician  string     `json:"technician"`
	OpenedAt    time.Time  `json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at"`
}

type ServiceReport struct {
	ID            int64     `json:"id"`
	XRGIID        string    `json:"xrgi_id"`
	CallID        *int64    `json:"call_id"`
	Technician    string    `json:"technician"`
	VisitDate     time.Time `json:"visit_date"`
	WorkPerformed string    `json:"work_performed"`
	Findings      string    `json:"findings"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateReportRequest struct {
	CallID        *int64 `json:"call_id"`
	Technician    string `json:"technician" binding:"required"`
	VisitDate     string `json:"visit_date" binding:"required"` // YYYY-MM-DD
	WorkPerformed string `json:"work_performed" binding:"required"`
	Findings      string `json:"findings"`
}
