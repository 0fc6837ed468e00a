package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/config"
	"xrgi-portal/backend/database"
	"xrgi-portal/backend/models"
	"xrgi-portal/backend/utils"
)

func ListCalls(store ServiceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := loadDevice(c, store)
		if !ok {
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		items, err := store.ListCalls(ctx, d.XRGIID)
		if err != nil {
			log.Printf("list calls error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func GetCall(store ServiceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		call, err := store.Call(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if err != nil {
			log.Printf("get call error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, call)
	}
}

// computeStatistics derives the statistics screen from the device counters.
// Availability is operating hours over hours elapsed since installation,
// capped at 100; it is 0 while the install date is unknown.
func computeStatistics(d models.Device, openCalls, reports int, now time.Time) models.DeviceStatistics {
	st := models.DeviceStatistics{
		XRGIID:         d.XRGIID,
		OperatingHours: round2(d.OperatingHours),
		Starts:         d.Starts,
		ElectricityKWh: round2(d.ElectricityKWh),
		HeatKWh:        round2(d.HeatKWh),
		OpenCalls:      openCalls,
		Reports:        reports,
	}
	if d.Starts > 0 {
		st.HoursPerStart = round2(d.OperatingHours / float64(d.Starts))
	}
	if d.InstalledAt != nil {
		elapsed := now.Sub(*d.InstalledAt).Hours()
		if elapsed > 0 {
			st.AvailabilityPct = round2(math.Min(100, d.OperatingHours/elapsed*100))
		}
	}
	return st
}

func DeviceStatistics(store DeviceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := loadDevice(c, store)
		if !ok {
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		open, reports, err := store.ActivityCounts(ctx, d.XRGIID)
		if err != nil {
			log.Printf("statistics error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, computeStatistics(d, open, reports, time.Now()))
	}
}

func ListReports(store ServiceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := loadDevice(c, store)
		if !ok {
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		items, err := store.ListReports(ctx, d.XRGIID)
		if err != nil {
			log.Printf("list reports error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func GetReport(store ServiceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		r, err := store.Report(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if err != nil {
			log.Printf("get report error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// CreateReport stores a technician's visit report. The summary comes from
// Gemini when a key is configured and falls back to a plain one.
func CreateReport(cfg config.Config, store ServiceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := loadDevice(c, store)
		if !ok {
			return
		}
		var req models.CreateReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		visit, err := time.Parse(time.DateOnly, strings.TrimSpace(req.VisitDate))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "visit_date must be YYYY-MM-DD"})
			return
		}
		if req.CallID != nil {
			ctx, cancel := dbContext(c)
			call, err := store.Call(ctx, *req.CallID)
			cancel()
			if err != nil || call.XRGIID != d.XRGIID {
				c.JSON(http.StatusBadRequest, gin.H{"error": "call does not belong to this device"})
				return
			}
		}
		r := models.ServiceReport{
			XRGIID:        d.XRGIID,
			CallID:        req.CallID,
			Technician:    strings.TrimSpace(req.Technician),
			VisitDate:     visit,
			WorkPerformed: strings.TrimSpace(req.WorkPerformed),
			Findings:      strings.TrimSpace(req.Findings),
		}
		r.Summary = reportSummarizer(c.Request.Context(), cfg, d, r)
		if r.Summary == "" {
			r.Summary = plainReportSummary(d, r)
		}
		// DB deadline starts after the summary is built.
		ctx, cancel := dbContext(c)
		defer cancel()
		id, err := store.CreateReport(ctx, r)
		if err != nil {
			log.Printf("create report error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db insert error"})
			return
		}
		r.ID = id
		r.CreatedAt = time.Now()
		c.JSON(http.StatusCreated, r)
	}
}

func ExportReports(store ServiceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := loadDevice(c, store)
		if !ok {
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		items, err := store.ListReports(ctx, d.XRGIID)
		if err != nil {
			log.Printf("export reports error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		b, err := reportsWorkbook(items)
		if err != nil {
			log.Printf("reports workbook error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export error"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="reports-`+d.XRGIID+`.xlsx"`)
		c.Data(http.StatusOK, utils.XLSXContentType, b)
	}
}

// reportSummarizer is swapped out in tests.
var reportSummarizer = geminiReportSummary

// geminiReportSummary returns "" when Gemini is not configured or fails.
// It is cancelled together with the request.
func geminiReportSummary(ctx context.Context, cfg config.Config, d models.Device, r models.ServiceReport) string {
	ai := utils.AIConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}
	if !ai.Enabled() {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()
	prompt := "Write a two-sentence summary of this service visit for the owner of a combined heat and power unit.\n" +
		"Facts:\n" +
		"- Unit = " + d.Name + " (" + d.Model + ", XRGI ID " + d.XRGIID + ")\n" +
		"- Visit date = " + r.VisitDate.Format(time.DateOnly) + "\n" +
		"- Technician = " + r.Technician + "\n" +
		"- Work performed = " + r.WorkPerformed + "\n" +
		"- Findings = " + r.Findings + "\n" +
		"Keep it concise and neutral (no emojis)."
	out, err := utils.Complete(ctx, ai, prompt)
	if err != nil {
		log.Printf("gemini summary error: %v", err)
		return ""
	}
	return out
}

func plainReportSummary(d models.Device, r models.ServiceReport) string {
	s := fmt.Sprintf("Service visit on %s by %s for %s: %s", r.VisitDate.Format(time.DateOnly), r.Technician, d.XRGIID, r.WorkPerformed)
	if r.Findings != "" {
		s += ". Findings: " + r.Findings
	}
	return strings.TrimSuffix(s, ".") + "."
}

const summaryTimeout = 20 * time.Second

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
