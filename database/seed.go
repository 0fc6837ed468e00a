package database

import (
	"context"
	"log"
	"time"

	"xrgi-portal/backend/models"
)

type sampleCall struct {
	xrgiID, status, priority, category, description, technician string
	openedDaysAgo                                               int
}

type sampleReport struct {
	xrgiID, technician, work, findings string
	visitDaysAgo                       int
}

var sampleDevices = []models.Device{
	{XRGIID: "2010000001", Name: "Hotel Marselis", Model: "XRGI 20", Status: models.StatusRunning, SiteCity: "Aarhus", SiteCountry: "DK", OperatingHours: 41230, Starts: 1210, ElectricityKWh: 812000, HeatKWh: 1650000},
	{XRGIID: "2010000002", Name: "Svømmehal Nord", Model: "XRGI 25", Status: models.StatusServiceDue, SiteCity: "Aalborg", SiteCountry: "DK", OperatingHours: 38990, Starts: 940, ElectricityKWh: 955000, HeatKWh: 2010000},
	{XRGIID: "2010000003", Name: "Pflegeheim am Park", Model: "XRGI 15", Status: models.StatusFault, SiteCity: "Hamburg", SiteCountry: "DE", OperatingHours: 22100, Starts: 2380, ElectricityKWh: 321000, HeatKWh: 690000},
	{XRGIID: "2010000004", Name: "Leisure Centre", Model: "XRGI 9", Status: models.StatusOffline, SiteCity: "Leeds", SiteCountry: "GB", OperatingHours: 9050, Starts: 410, ElectricityKWh: 80000, HeatKWh: 181000},
	{XRGIID: "2010000005", Name: "Apartments Vesterbro", Model: "XRGI 20", Status: models.StatusRunning, SiteCity: "København", SiteCountry: "DK", OperatingHours: 15780, Starts: 320, ElectricityKWh: 311000, HeatKWh: 640000},
}

var sampleCalls = []sampleCall{
	{"2010000002", "open", "normal", "maintenance", "Scheduled 40,000 hour service", "Lars Nielsen", 3},
	{"2010000003", "open", "high", "alarm", "Engine stopped: low oil pressure alarm", "Jonas Weber", 1},
	{"2010000004", "open", "normal", "communication", "No data received from Q-Network for 5 days", "", 5},
	{"2010000001", "closed", "low", "maintenance", "Replaced spark plugs", "Lars Nielsen", 60},
}

var sampleReports = []sampleReport{
	{"2010000001", "Lars Nielsen", "Replaced spark plugs and oil filter, checked coolant level.", "No leaks found.", 60},
	{"2010000003", "Jonas Weber", "Topped up oil and reset alarm.", "Oil consumption above normal; follow up at next visit.", 30},
}

// SeedSampleData inserts demo devices, calls and reports. Safe to run repeatedly.
func SeedSampleData() {
	if Pool == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	now := time.Now()

	for _, d := range sampleDevices {
		installed := now.AddDate(-int(d.OperatingHours/8000)-1, 0, 0)
		_, err := Pool.Exec(ctx, `
            INSERT INTO devices(xrgi_id, name, model, status, site_city, site_country, installed_at, operating_hours, starts, electricity_kwh, heat_kwh, configuration)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,'{"flow_temperature": 80, "return_temperature": 60, "power_setpoint_pct": 100}'::jsonb)
            ON CONFLICT (xrgi_id) DO NOTHING`,
			d.XRGIID, d.Name, d.Model, d.Status, d.SiteCity, d.SiteCountry, installed, d.OperatingHours, d.Starts, d.ElectricityKWh, d.HeatKWh)
		if err != nil {
			log.Printf("seed device %s error: %v", d.XRGIID, err)
		}
	}
	for _, c := range sampleCalls {
		opened := now.AddDate(0, 0, -c.openedDaysAgo)
		var closed *time.Time
		if c.status == "closed" {
			t := opened.Add(4 * time.Hour)
			closed = &t
		}
		_, err := Pool.Exec(ctx, `
            INSERT INTO service_calls(xrgi_id, status, priority, category, description, technician, opened_at, closed_at)
            SELECT $1,$2,$3,$4,$5,$6,$7::timestamptz,$8::timestamptz
            WHERE NOT EXISTS (SELECT 1 FROM service_calls WHERE xrgi_id=$1 AND description=$5)`,
			c.xrgiID, c.status, c.priority, c.category, c.description, c.technician, opened, closed)
		if err != nil {
			log.Printf("seed call for %s error: %v", c.xrgiID, err)
		}
	}
	for _, r := range sampleReports {
		visit := now.AddDate(0, 0, -r.visitDaysAgo).Format(time.DateOnly)
		_, err := Pool.Exec(ctx, `
            INSERT INTO service_reports(xrgi_id, technician, visit_date, work_performed, findings, summary)
            SELECT $1,$2,$3::date,$4,$5,$4
            WHERE NOT EXISTS (SELECT 1 FROM service_reports WHERE xrgi_id=$1 AND work_performed=$4)`,
			r.xrgiID, r.technician, visit, r.work, r.findings)
		if err != nil {
			log.Printf("seed report for %s error: %v", r.xrgiID, err)
		}
	}
}
