package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetrySQLiteBusyBranches(t *testing.T) {
	attempts := 0
	err := retrySQLiteBusy(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}

	attempts = 0
	err = retrySQLiteBusy(func() error {
		attempts++
		return errors.New("database is locked")
	})
	if err == nil {
		t.Fatalf("expected retry exhaustion error")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts before giving up, got %d", attempts)
	}

	attempts = 0
	err = retrySQLiteBusy(func() error {
		attempts++
		return errors.New("permanent failure")
	})
	if err == nil || !strings.Contains(err.Error(), "permanent failure") {
		t.Fatalf("expected permanent failure passthrough, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected non-busy errors to avoid retries, got %d attempts", attempts)
	}
}

func TestIsSQLiteBusyError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("database is locked (5) (SQLITE_BUSY)"), want: true},
		{err: errors.New("insert build: SQLITE_BUSY"), want: true},
		{err: errors.New("UNIQUE constraint failed: builds.project_id, builds.number"), want: false},
	}
	for _, tc := range cases {
		if got := isSQLiteBusyError(tc.err); got != tc.want {
			t.Fatalf("isSQLiteBusyError(%v)=%v want=%v", tc.err, got, tc.want)
		}
	}
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 9, 14, 30, 0, 123456789, time.FixedZone("CET", 3600))
	got := parseTime(formatTime(in))
	if !got.Equal(in) {
		t.Fatalf("time round trip: got %v want %v", got, in)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if !parseTime("").IsZero() || !parseTime("garbage").IsZero() {
		t.Fatalf("expected zero time for empty or malformed input")
	}
}
