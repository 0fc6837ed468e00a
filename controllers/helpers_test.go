package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/config"
	"xrgi-portal/backend/middlewares"
)

func init() { gin.SetMode(gin.TestMode) }

const testUserHeader = "X-Test-User"

func testConfig() config.Config {
	return config.Config{
		JWTSecret:           "test-secret",
		JWTTTL:              time.Hour,
		ResetTokenTTL:       time.Hour,
		DefaultLanguage:     "en",
		PercentageTolerance: 0.01,
	}
}

// testRouter mounts the handlers the way routes.Register does, with the
// caller's user id taken from testUserHeader instead of a JWT.
func testRouter(cfg config.Config, store Store) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.Use(middlewares.Language(cfg.DefaultLanguage))
	api.GET("/portals", Portals())
	api.POST("/auth/signup", Signup(cfg, store))
	api.POST("/auth/login", Login(cfg, store))
	api.POST("/auth/password-reset/request", RequestPasswordReset(cfg, store))
	api.POST("/auth/password-reset/confirm", ConfirmPasswordReset(store))

	priv := api.Group("/")
	priv.Use(func(c *gin.Context) {
		uid, _ := strconv.ParseInt(c.GetHeader(testUserHeader), 10, 64)
		c.Set(middlewares.UserIDKey, uid)
		c.Next()
	})
	priv.GET("me", Me(store))
	priv.POST("registrations/validate", ValidateRegistration(cfg))
	priv.POST("registrations/distribution", CalcDistribution(cfg))
	priv.POST("registrations", CreateRegistration(cfg, store))
	priv.GET("registrations", ListRegistrations(store))
	priv.GET("registrations/:id", GetRegistration(store))
	priv.PUT("registrations/:id/installation", UpdateInstallation(cfg, store))
	priv.GET("registrations/:id/distribution.xlsx", ExportDistribution(store))
	priv.GET("devices", ListDevices(store))
	priv.GET("devices/summary", DeviceSummary(store))
	priv.POST("devices/import", ImportDevices(store))
	priv.GET("devices/:xrgi", GetDevice(store))
	priv.PUT("devices/:xrgi/configuration", UpdateConfiguration(store))
	priv.GET("devices/:xrgi/calls", ListCalls(store))
	priv.GET("devices/:xrgi/statistics", DeviceStatistics(store))
	priv.GET("devices/:xrgi/reports", ListReports(store))
	priv.POST("devices/:xrgi/reports", CreateReport(cfg, store))
	priv.GET("devices/:xrgi/reports.xlsx", ExportReports(store))
	priv.GET("calls/:id", GetCall(store))
	priv.GET("reports/:id", GetReport(store))
	return r
}

// do sends body (JSON-encoded unless nil) and returns the recorder.
func do(t *testing.T, r http.Handler, method, path string, uid int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != 0 {
		req.Header.Set(testUserHeader, strconv.FormatInt(uid, 10))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestPagination(t *testing.T) {
	cases := []struct {
		query         string
		limit, offset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=500", 20, 0},
		{"?limit=-1&offset=-3", 20, 0},
		{"?limit=abc", 20, 0},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)
		limit, offset := pagination(c)
		if limit != tc.limit || offset != tc.offset {
			t.Errorf("%q: got %d/%d, want %d/%d", tc.query, limit, offset, tc.limit, tc.offset)
		}
	}
}

func TestCleanXRGIID(t *testing.T) {
	if got := cleanXRGIID(" 20-1000 0001 "); got != "2010000001" {
		t.Fatalf("got %q", got)
	}
}
