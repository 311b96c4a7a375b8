package domain

import (
	"testing"
	"time"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestComputeCharge(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		exit  string
		rate  float64
		want  float64
	}{
		{"two and a half hours", "2025-03-01 10:00:00", "2025-03-01 12:30:00", 3.00, 7.50},
		{"quarter hour", "2025-03-01 09:00:00", "2025-03-01 09:15:00", 5.00, 1.25},
		{"zero duration", "2025-03-01 09:00:00", "2025-03-01 09:00:00", 5.00, 0},
		{"seconds are not billed", "2025-03-01 10:00:00", "2025-03-01 10:01:30", 60.00, 1.00},
		{"rounds half up to cents", "2025-03-01 10:00:00", "2025-03-01 10:15:00", 4.50, 1.13},
		{"overnight", "2025-03-01 22:00:00", "2025-03-02 02:00:00", 2.50, 10.00},
		{"free space", "2025-03-01 10:00:00", "2025-03-01 14:00:00", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCharge(ts(t, tt.entry), ts(t, tt.exit), tt.rate)
			if got != tt.want {
				t.Fatalf("ComputeCharge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionState(t *testing.T) {
	open := &Session{EntryTime: ts(t, "2025-03-01 10:00:00")}
	if !open.Open() || open.State() != SessionOpen {
		t.Fatalf("session without exit time should be open")
	}
}

func TestNormalizePlate(t *testing.T) {
	if got := NormalizePlate("  ab-123-cd "); got != "AB-123-CD" {
		t.Fatalf("NormalizePlate = %q", got)
	}
}
