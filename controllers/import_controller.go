package controllers

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
	"xrgi-portal/backend/utils"
)

const importTimeout = 30 * time.Second

var importColumns = map[string][]string{
	"xrgi_id": {"xrgi id", "xrgi_id", "xrgi", "serial", "serial number"},
	"name":    {"name", "system name", "system"},
	"model":   {"model", "type"},
	"status":  {"status", "state"},
	"city":    {"city", "site city", "location"},
	"country": {"country", "site country"},
}

type skippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportDevices loads a fleet list from a .csv or .xlsx upload (field "file").
// The header row and columns are detected; rows with a malformed XRGI ID or an
// unknown status are skipped and reported.
func ImportDevices(store DeviceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file (field 'file')"})
			return
		}
		defer file.Close()

		buf, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
			return
		}
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".csv" && ext != ".xlsx" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type; use .csv or .xlsx"})
			return
		}
		allRows, err := utils.ReadAllRows(buf, ext)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		headerRowIdx := utils.DetectHeaderRow(allRows)
		if headerRowIdx < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not detect header row"})
			return
		}
		headers := utils.NormalizeHeaders(allRows, headerRowIdx)
		cols := map[string]string{}
		for key, keywords := range importColumns {
			cols[key] = utils.PickColumn(headers, keywords)
		}
		if cols["xrgi_id"] == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not find an XRGI ID column", "headers": headers})
			return
		}

		devices, skipped := devicesFromRecords(utils.BuildRecords(allRows, headerRowIdx, headers), cols)

		ctx, cancel := context.WithTimeout(c.Request.Context(), importTimeout)
		defer cancel()
		if err := store.UpsertDevices(ctx, devices); err != nil {
			log.Printf("import devices error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error", "imported": 0})
			return
		}
		imported := len(devices)
		c.JSON(http.StatusOK, gin.H{
			"file_name":    header.Filename,
			"imported":     imported,
			"skipped":      len(skipped),
			"skipped_rows": skipped,
			"columns":      cols,
		})
	}
}

// devicesFromRecords maps spreadsheet records to devices.
func devicesFromRecords(records []utils.Record, cols map[string]string) ([]models.Device, []skippedRow) {
	devices := []models.Device{}
	skipped := []skippedRow{}
	seen := map[string]bool{}
	for _, r := range records {
		row, rec := r.Row, r.Values
		id := cleanXRGIID(rec[cols["xrgi_id"]])
		if !registration.ValidXRGIID(id) {
			skipped = append(skipped, skippedRow{Row: row, Reason: "invalid xrgi id"})
			continue
		}
		if seen[id] {
			skipped = append(skipped, skippedRow{Row: row, Reason: "duplicate xrgi id"})
			continue
		}
		// Empty status keeps the stored one; new devices start as pending.
		status := ""
		if v := column(rec, cols["status"]); v != "" {
			status = strings.ReplaceAll(strings.ToLower(v), " ", "_")
			if !models.ValidStatus(status) {
				skipped = append(skipped, skippedRow{Row: row, Reason: "unknown status"})
				continue
			}
		}
		seen[id] = true
		devices = append(devices, models.Device{
			XRGIID:      id,
			Name:        column(rec, cols["name"]),
			Model:       column(rec, cols["model"]),
			Status:      status,
			SiteCity:    column(rec, cols["city"]),
			SiteCountry: column(rec, cols["country"]),
		})
	}
	return devices, skipped
}

func column(rec map[string]string, col string) string {
	if col == "" {
		return ""
	}
	return strings.TrimSpace(rec[col])
}
