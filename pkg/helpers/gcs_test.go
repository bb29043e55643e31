package helpers

import (
	"testing"
	"time"
)

func TestStatementObjectPath(t *testing.T) {
	at := time.Date(2026, 3, 9, 14, 5, 7, 0, time.FixedZone("WIB", 7*3600))
	got := StatementObjectPath("u-1", at)
	if want := "statements/u-1/20260309T070507Z.csv"; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if url := PublicURL("bucket", got); url != "https://storage.googleapis.com/bucket/statements/u-1/20260309T070507Z.csv" {
		t.Errorf("url = %q", url)
	}
}
