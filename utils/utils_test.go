package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/generative-ai-go/genai"
)

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWT("secret", 42, "installer", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT("secret", tok)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Portal != "installer" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := ParseJWT("other", tok); err == nil {
		t.Fatalf("token accepted with wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	tok, err := GenerateJWT("secret", 1, "", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT("secret", tok); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestJWTRejectsUnsignedToken(t *testing.T) {
	claims := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT("secret", tok); err == nil {
		t.Fatalf("alg none token accepted")
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("correct horse", h) {
		t.Fatalf("hash does not verify")
	}
	if CheckPasswordHash("wrong", h) {
		t.Fatalf("wrong password verified")
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	wb, err := NewWorkbook("Devices")
	if err != nil {
		t.Fatalf("NewWorkbook: %v", err)
	}
	if err := wb.AppendRow("Fleet export"); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := wb.AppendRow("XRGI ID", "Name", "Status"); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := wb.Bold(wb.Row()); err != nil {
		t.Fatalf("Bold: %v", err)
	}
	if err := wb.AppendRow("2010000001", "Hotel", "running"); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	b, err := wb.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	rows, err := ReadAllRows(b, ".xlsx")
	if err != nil {
		t.Fatalf("ReadAllRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != "XRGI ID" || rows[2][2] != "running" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestDetectHeaderAndPick(t *testing.T) {
	rows, err := ReadAllRows([]byte("Xrgi Id,System Name,Modell,Status\n2010000001,Hotel,XRGI 20,running\n,,,\n2010000002,Pool,XRGI 25,fault\n"), ".csv")
	if err != nil {
		t.Fatalf("ReadAllRows: %v", err)
	}
	idx := DetectHeaderRow(rows)
	if idx != 0 {
		t.Fatalf("header row = %d", idx)
	}
	headers := NormalizeHeaders(rows, idx)
	if got := PickColumn(headers, []string{"xrgi id", "xrgi"}); got != "Xrgi Id" {
		t.Errorf("xrgi column = %q", got)
	}
	if got := PickColumn(headers, []string{"name"}); got != "System Name" {
		t.Errorf("name column = %q", got)
	}
	if got := PickColumn(headers, []string{"model"}); got != "Modell" {
		t.Errorf("model column = %q", got)
	}
	recs := BuildRecords(rows, idx, headers)
	if len(recs) != 2 {
		t.Fatalf("blank rows must be dropped, got %d records", len(recs))
	}
	if recs[1].Values["Status"] != "fault" || recs[1].Row != 4 {
		t.Errorf("unexpected record %+v", recs[1])
	}
}

func TestReadAllRowsUnsupported(t *testing.T) {
	if _, err := ReadAllRows([]byte("x"), ".pdf"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported error, got %v", err)
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{{"", "abc", 3}, {"model", "modell", 1}, {"kitten", "sitting", 3}}
	for _, c := range cases {
		if got := editDistance(c.a, c.b); got != c.want {
			t.Errorf("editDistance(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCandidateText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		nil,
		{Content: &genai.Content{Parts: []genai.Part{genai.Text(" Oil filter replaced."), genai.Blob{MIMEType: "image/png"}}}},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text(" No leaks found. ")}}},
	}}
	if got := candidateText(resp); got != "Oil filter replaced. No leaks found." {
		t.Fatalf("got %q", got)
	}
	if candidateText(nil) != "" {
		t.Fatalf("nil response must give empty text")
	}
}

func TestCompleteDisabled(t *testing.T) {
	if _, err := Complete(t.Context(), AIConfig{Model: "gemini-2.5-pro"}, "hi"); !errors.Is(err, ErrAIDisabled) {
		t.Fatalf("expected ErrAIDisabled, got %v", err)
	}
}
