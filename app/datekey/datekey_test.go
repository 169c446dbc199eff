package datekey

import (
	"errors"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	got := Format(time.Date(2026, time.February, 21, 13, 0, 0, 0, time.Local))
	if got != "2026-02-21" {
		t.Errorf("Expected '2026-02-21', got '%s'", got)
	}
}

func TestValidateRejectsInvalidKeys(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"2026-02-30", ErrCalendar},
		{"2026-13-01", ErrCalendar},
		{"2026-01-00", ErrCalendar},
		{"2025-02-29", ErrCalendar},
		{"2026-02", ErrFormat},
		{"2026/02/21", ErrFormat},
		{"", ErrFormat},
	}

	for _, tt := range tests {
		if err := Validate(tt.key); !errors.Is(err, tt.want) {
			t.Errorf("Validate(%q): expected %v, got %v", tt.key, tt.want, err)
		}
	}
}

func TestValidKeysRoundTrip(t *testing.T) {
	start := time.Date(2023, time.January, 1, 12, 0, 0, 0, time.Local)
	for day := 0; day < 3*366; day++ {
		key := Format(start.AddDate(0, 0, day))
		if err := Validate(key); err != nil {
			t.Fatalf("Expected %s to be valid, got %v", key, err)
		}

		parsed, err := time.ParseInLocation(layout, key, time.Local)
		if err != nil {
			t.Fatal(err)
		}
		if Format(parsed) != key {
			t.Fatalf("Expected round trip of %s, got %s", key, Format(parsed))
		}
	}

	if !IsValid("2024-02-29") {
		t.Error("Expected leap day 2024-02-29 to be valid")
	}
}

func TestParts(t *testing.T) {
	year, month, day, err := Parts("2026-02-21")
	if err != nil {
		t.Fatal(err)
	}
	if year != "2026" || month != "02" || day != "21" {
		t.Errorf("Expected 2026/02/21, got %s/%s/%s", year, month, day)
	}
}

func TestPrevious(t *testing.T) {
	got, err := Previous("2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if got != "2026-02-28" {
		t.Errorf("Expected '2026-02-28', got '%s'", got)
	}
}

func TestResolveUsesLeadingDate(t *testing.T) {
	for _, value := range []string{"2026-02-18T20:34:59+09:00", "2026-02-18 20:34:59", "2026-02-18"} {
		key, ok := Resolve(value)
		if !ok || key != "2026-02-18" {
			t.Errorf("Resolve(%q): expected '2026-02-18', got '%s' (ok=%v)", value, key, ok)
		}
	}
}

func TestResolveParsesFeedTimestamps(t *testing.T) {
	published := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	want := Format(published)

	for _, value := range []string{
		published.Format(time.RFC1123),
		published.Format(time.RFC1123Z),
	} {
		key, ok := Resolve(value)
		if !ok {
			t.Errorf("Resolve(%q): expected a key", value)
			continue
		}
		if key != want {
			t.Errorf("Resolve(%q): expected '%s', got '%s'", value, want, key)
		}
	}
}

func TestResolveRejectsUnusableValues(t *testing.T) {
	for _, value := range []string{"", "not-a-date", "2026-02-30T20:34:59+09:00", "2026-13-01"} {
		if key, ok := Resolve(value); ok {
			t.Errorf("Resolve(%q): expected no key, got '%s'", value, key)
		}
	}
}
