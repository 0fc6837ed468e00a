package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"xrgi-portal/backend/config"
	"xrgi-portal/backend/database"
	"xrgi-portal/backend/i18n"
	"xrgi-portal/backend/middlewares"
	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
	"xrgi-portal/backend/utils"
)

func validator(cfg config.Config) registration.Validator {
	return registration.Validator{Tolerance: cfg.PercentageTolerance}
}

// ValidateRegistration checks a whole form, or a single wizard step when ?step= is set.
func ValidateRegistration(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f registration.Form
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		f.MonthlyDistribution = registration.Distribute(f.ExpectedOperatingHours, f.DistributeHoursEvenly, f.MonthlyDistribution)
		v := validator(cfg)
		var res registration.Result
		if s := c.Query("step"); s != "" {
			step, ok := registration.ParseStep(s)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step", "steps": registration.Steps()})
				return
			}
			res = v.ValidateStep(f, step)
		} else {
			res = v.Validate(f)
		}
		if !res.Valid {
			respondInvalid(c, res.Errors)
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}

// CalcDistribution recalculates the monthly distribution, optionally after
// changing the percentage of one month.
func CalcDistribution(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DistributionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		sum := registration.Summarize(req.ExpectedOperatingHours, req.DistributeHoursEvenly, req.MonthlyDistribution, cfg.PercentageTolerance)
		if req.EditMonth != nil {
			if req.EditPercentage == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "editPercentage is required with editMonth"})
				return
			}
			months, total, err := registration.SetMonthPercentage(sum.Months, *req.EditMonth, *req.EditPercentage, req.ExpectedOperatingHours, cfg.PercentageTolerance)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sum = registration.Summary{Months: months, MonthErrors: registration.MonthErrors(months), Total: total}
		}

		monthErrs := make(map[string]string, len(sum.MonthErrors))
		for i, msg := range sum.MonthErrors {
			monthErrs[strconv.Itoa(i)] = translate(c, msg)
		}
		if sum.Total.Message != "" {
			sum.Total.Message = translate(c, sum.Total.Message)
		}
		c.JSON(http.StatusOK, gin.H{
			"monthlyDistribution": sum.Months,
			"monthErrors":         monthErrs,
			"total":               sum.Total,
		})
	}
}

func CreateRegistration(cfg config.Config, store RegistrationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f registration.Form
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		f.MonthlyDistribution = registration.Distribute(f.ExpectedOperatingHours, f.DistributeHoursEvenly, f.MonthlyDistribution)
		if res := validator(cfg).Validate(f); !res.Valid {
			respondInvalid(c, res.Errors)
			return
		}
		f.XRGIID = strings.TrimSpace(f.XRGIID)

		r := models.Registration{
			ID:     uuid.NewString(),
			UserID: c.GetInt64(middlewares.UserIDKey),
			XRGIID: f.XRGIID,
			Form:   f,
		}
		d := models.Device{
			XRGIID:      f.XRGIID,
			Name:        strings.TrimSpace(f.SystemName),
			Model:       strings.TrimSpace(f.Model),
			SiteCity:    strings.TrimSpace(f.SiteCity),
			SiteCountry: strings.TrimSpace(f.SiteCountry),
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		err := store.CreateRegistration(ctx, r, d)
		if errors.Is(err, database.ErrDeviceClaimed) {
			c.JSON(http.StatusConflict, gin.H{"error": translate(c, i18n.MsgDeviceClaimed)})
			return
		}
		if err != nil {
			log.Printf("create registration error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db insert error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": r.ID})
	}
}

func ListRegistrations(store RegistrationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		ctx, cancel := dbContext(c)
		defer cancel()
		items, err := store.ListRegistrations(ctx, c.GetInt64(middlewares.UserIDKey), limit, offset)
		if err != nil {
			log.Printf("list registrations error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}

// loadRegistration fetches the caller's registration named by :id, answering
// the request itself on failure.
func loadRegistration(c *gin.Context, store RegistrationStore) (models.Registration, bool) {
	ctx, cancel := dbContext(c)
	defer cancel()
	r, err := store.Registration(ctx, c.Param("id"), c.GetInt64(middlewares.UserIDKey))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return r, false
	}
	if err != nil {
		log.Printf("load registration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return r, false
	}
	return r, true
}

func GetRegistration(store RegistrationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := loadRegistration(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// UpdateInstallation changes the installation request of a stored registration.
func UpdateInstallation(cfg config.Config, store RegistrationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.InstallationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		r, ok := loadRegistration(c, store)
		if !ok {
			return
		}
		r.Form.InstallationRequested = req.InstallationRequested
		r.Form.InstallationTiming = req.InstallationTiming
		if !req.InstallationRequested {
			r.Form.InstallationTiming = ""
		}
		if res := validator(cfg).ValidateStep(r.Form, registration.StepInstallation); !res.Valid {
			respondInvalid(c, res.Errors)
			return
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		if err := store.UpdateRegistrationForm(ctx, r.ID, r.UserID, r.Form); err != nil {
			log.Printf("update installation error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "installationRequested": r.Form.InstallationRequested, "installationTiming": r.Form.InstallationTiming})
	}
}

// ExportDistribution downloads the monthly distribution of a registration as XLSX.
func ExportDistribution(store RegistrationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := loadRegistration(c, store)
		if !ok {
			return
		}
		b, err := distributionWorkbook(r.XRGIID, r.Form)
		if err != nil {
			log.Printf("distribution export error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export error"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="distribution-`+r.XRGIID+`.xlsx"`)
		c.Data(http.StatusOK, utils.XLSXContentType, b)
	}
}
