package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/database"
	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
)

// ListDevices returns a page of devices, optionally filtered by ?status=.
func ListDevices(store DeviceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := strings.TrimSpace(c.Query("status"))
		if status != "" && !models.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status", "statuses": models.DeviceStatuses})
			return
		}
		limit, offset := pagination(c)
		ctx, cancel := dbContext(c)
		defer cancel()
		items, err := store.ListDevices(ctx, status, limit, offset)
		if err != nil {
			log.Printf("list devices error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}

func DeviceSummary(store DeviceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbContext(c)
		defer cancel()
		counts, err := store.DeviceSummary(ctx)
		if err != nil {
			log.Printf("device summary error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		c.JSON(http.StatusOK, gin.H{"counts": counts, "total": total})
	}
}

// xrgiParam reads and checks the :xrgi path parameter, answering 400 when malformed.
func xrgiParam(c *gin.Context) (string, bool) {
	id := cleanXRGIID(c.Param("xrgi"))
	if !registration.ValidXRGIID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": translate(c, registration.MsgInvalidXRGIID)})
		return "", false
	}
	return id, true
}

type deviceGetter interface {
	Device(ctx context.Context, xrgiID string) (models.Device, error)
}

func loadDevice(c *gin.Context, store deviceGetter) (models.Device, bool) {
	id, ok := xrgiParam(c)
	if !ok {
		return models.Device{}, false
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	d, err := store.Device(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return d, false
	}
	if err != nil {
		log.Printf("load device error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return d, false
	}
	return d, true
}

func GetDevice(store DeviceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := loadDevice(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// UpdateConfiguration merges the posted key/values into the device configuration.
func UpdateConfiguration(store DeviceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := xrgiParam(c)
		if !ok {
			return
		}
		var values map[string]any
		if err := c.ShouldBindJSON(&values); err != nil || len(values) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		for k := range values {
			if strings.TrimSpace(k) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "empty configuration key"})
				return
			}
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		err := store.UpdateConfiguration(ctx, id, values)
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		if err != nil {
			log.Printf("update configuration error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		d, err := store.Device(ctx, id)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "configuration": d.Configuration})
	}
}
