package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestNotFound(t *testing.T) {
	if err := notFound(pgx.ErrNoRows); !errors.Is(err, ErrNotFound) {
		t.Fatalf("pgx.ErrNoRows should map to ErrNotFound, got %v", err)
	}
	other := fmt.Errorf("boom")
	if err := notFound(other); err != other {
		t.Fatalf("other errors must pass through, got %v", err)
	}
}

func TestConnectRejectsBadURL(t *testing.T) {
	if err := Connect(t.Context(), "postgres://%zz"); err == nil {
		t.Fatalf("expected parse error")
	}
}
