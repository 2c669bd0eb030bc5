package domain

import (
	"errors"
	"testing"
)

func TestMinuteOfDay(t *testing.T) {
	for clock, want := range map[string]int{
		"00:00": 0,
		"09:00": 540,
		"09:30": 570,
		"23:59": 1439,
	} {
		got, err := MinuteOfDay(clock)
		if err != nil {
			t.Fatalf("MinuteOfDay(%q) error: %v", clock, err)
		}
		if got != want {
			t.Fatalf("MinuteOfDay(%q) = %d, want %d", clock, got, want)
		}
	}

	for _, bad := range []string{"", "9:00", "24:00", "09:60", "0900", "09:0a", "09-00"} {
		if _, err := MinuteOfDay(bad); err == nil {
			t.Errorf("MinuteOfDay(%q) succeeded, want error", bad)
		}
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"partial", "09:30", "10:30", "09:00", "10:00", true},
		{"contained", "09:15", "09:45", "09:00", "10:00", true},
		{"abutting end-to-start", "10:00", "11:00", "09:00", "10:00", false},
		{"abutting start-to-end", "08:00", "09:00", "09:00", "10:00", false},
		{"disjoint", "11:00", "12:00", "09:00", "10:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	rules := DefaultRangeRules()

	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"valid hour", "09:00", "10:00", false},
		{"valid ninety minutes", "09:30", "11:00", false},
		{"start off step", "09:15", "10:00", true},
		{"end off step", "09:00", "10:15", true},
		{"too short", "09:00", "09:30", true},
		{"reversed", "10:00", "09:00", true},
		{"zero length", "09:00", "09:00", true},
		{"bad clock", "9am", "10:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.ValidateRange(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateRange(%q, %q) succeeded, want error", tt.start, tt.end)
				}
				var rErr *InvalidRangeError
				if !errors.As(err, &rErr) {
					t.Fatalf("error type = %T, want *InvalidRangeError", err)
				}
				if rErr.Reason == "" {
					t.Fatalf("InvalidRangeError must carry a reason")
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateRange(%q, %q) error: %v", tt.start, tt.end, err)
			}
		})
	}
}

func TestValidateRangeCustomRules(t *testing.T) {
	rules := RangeRules{StepMinutes: 15, MinDurationMinutes: 30}

	if err := rules.ValidateRange("09:15", "09:45"); err != nil {
		t.Fatalf("ValidateRange error: %v", err)
	}
	if err := rules.ValidateRange("09:10", "09:45"); err == nil {
		t.Fatalf("expected step violation")
	}
	if err := rules.ValidateRange("09:15", "09:30"); err == nil {
		t.Fatalf("expected duration violation")
	}
}
