package importer

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "iso", input: "2026-03-10"},
		{name: "german", input: "10.03.2026"},
		{name: "us", input: "03/10/2026"},
		{name: "rfc3339", input: "2026-03-10T08:30:00+01:00"},
		{name: "empty", input: "", wantErr: true},
		{name: "invalid", input: "tenth of march", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got.Year() != 2026 || got.Month() != time.March || got.Day() != 10 {
				t.Fatalf("unexpected date for %q: %s", tc.input, got)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Fatalf("expected start of day for %q, got %s", tc.input, got)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	clock, err := parseClock("start", "9:15 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clock.String() != "09:15" {
		t.Fatalf("expected 09:15, got %s", clock)
	}
	if _, err := parseClock("end", ""); err == nil || err.Error() != "missing end time" {
		t.Fatalf("expected missing end time error, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	if id, err := parseID("task", " 12 "); err != nil || id != 12 {
		t.Fatalf("expected 12, got %d (%v)", id, err)
	}
	for _, input := range []string{"", "0", "-3", "abc"} {
		if _, err := parseID("task", input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
