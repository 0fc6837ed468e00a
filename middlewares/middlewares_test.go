package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"xrgi-portal/backend/utils"
)

func init() { gin.SetMode(gin.TestMode) }

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/p", Auth("secret"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetInt64(UserIDKey), "portal": c.GetString(PortalKey)})
	})

	tok, err := utils.GenerateJWT("secret", 7, "service-partner", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusOK},
		{"lowercase scheme", "bearer " + tok, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	r := gin.New()
	var got language.Tag
	r.GET("/l", Language("da"), func(c *gin.Context) {
		got = LanguageFrom(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/l", nil))
	if got != language.Danish {
		t.Fatalf("fallback: got %s", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/l", nil)
	req.Header.Set("Accept-Language", "de")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got != language.German || w.Header().Get("Content-Language") != "de" {
		t.Fatalf("accept-language: got %s / %q", got, w.Header().Get("Content-Language"))
	}
}
