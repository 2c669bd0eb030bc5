package domain

import "testing"

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.String() != "2024-06-03" {
		t.Fatalf("String() = %q, want %q", d.String(), "2024-06-03")
	}

	for _, bad := range []string{"", "2024-6-3", "03-06-2024", "2024-13-01", "2024-02-30", "2024-06-03T00:00:00"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", bad)
		}
	}
}

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		days int
		want string
	}{
		{"within month", "2024-06-03", 7, "2024-06-10"},
		{"month rollover", "2024-06-28", 7, "2024-07-05"},
		{"year rollover", "2024-12-30", 7, "2025-01-06"},
		{"leap february", "2024-02-26", 7, "2024-03-04"},
		{"non-leap february", "2023-02-26", 7, "2023-03-05"},
		{"dst transition week", "2024-03-28", 7, "2024-04-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate error: %v", err)
			}
			if got := d.AddDays(tt.days).String(); got != tt.want {
				t.Fatalf("AddDays(%d) = %q, want %q", tt.days, got, tt.want)
			}
		})
	}
}

func TestDateNextWeekChain(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}

	want := []string{"2024-06-10", "2024-06-17", "2024-06-24", "2024-07-01", "2024-07-08"}
	for i, w := range want {
		d = d.NextWeek()
		if d.String() != w {
			t.Fatalf("occurrence %d = %q, want %q", i+1, d.String(), w)
		}
	}
}

func TestDateBefore(t *testing.T) {
	a, _ := ParseDate("2024-06-03")
	b, _ := ParseDate("2024-06-10")
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("Before ordering wrong for %v / %v", a, b)
	}
	if a.Before(a) {
		t.Fatalf("date must not be before itself")
	}

	// String ordering must agree with chronological ordering.
	if !(a.String() < b.String()) {
		t.Fatalf("lexical ordering disagrees with chronological ordering")
	}
}
