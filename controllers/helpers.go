package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/i18n"
	"xrgi-portal/backend/middlewares"
)

var dbTimeout = 5 * time.Second

func dbContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), dbTimeout)
}

// pagination reads limit/offset query params; limit defaults to 20 and is capped at 100.
func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// respondInvalid answers 422 with field errors in the request's language.
func respondInvalid(c *gin.Context, errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"valid":  false,
		"errors": i18n.TranslateErrors(middlewares.LanguageFrom(c), errs),
	})
}

func translate(c *gin.Context, msg string) string {
	return i18n.Translate(middlewares.LanguageFrom(c), msg)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cleanXRGIID removes the spaces and dashes people type into serial numbers.
func cleanXRGIID(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}
