package schedule

import (
	"testing"
	"time"
)

func TestSlotLabelsSkipLunch(t *testing.T) {
	labels := SlotLabels()

	if len(labels) != 16 {
		t.Fatalf("len(labels) = %d, want 16", len(labels))
	}
	if labels[0] != "09:00" || labels[len(labels)-1] != "18:00" {
		t.Fatalf("labels span %s..%s", labels[0], labels[len(labels)-1])
	}
	for _, l := range labels {
		switch l {
		case "12:30", "13:00", "13:30":
			t.Fatalf("label %s falls in the lunch gap", l)
		}
	}
}

func TestSlotLabelsReturnsCopy(t *testing.T) {
	labels := SlotLabels()
	labels[0] = "00:00"

	if SlotLabels()[0] != "09:00" {
		t.Fatal("mutating the returned slice must not affect the menu")
	}
}

func TestCandidateDaysStartsToday(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 10, 16, 45, 0, 0, loc)

	days := CandidateDays(now, loc)

	if len(days) != DaysAhead {
		t.Fatalf("len(days) = %d, want %d", len(days), DaysAhead)
	}
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)
	if !days[0].Equal(want) {
		t.Fatalf("days[0] = %s, want %s", days[0], want)
	}
	if !days[6].Equal(want.AddDate(0, 0, 6)) {
		t.Fatalf("days[6] = %s", days[6])
	}
}

func TestComposeUsesShopWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)

	at, err := Compose(date, "14:30", loc)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if at.Hour() != 14 || at.Minute() != 30 {
		t.Fatalf("local time = %02d:%02d, want 14:30", at.Hour(), at.Minute())
	}
	if at.Year() != 2025 || at.Month() != time.June || at.Day() != 10 {
		t.Fatalf("date = %s", at)
	}
	if at.Location() != loc {
		t.Fatalf("location = %s", at.Location())
	}
}

func TestComposeRejectsBadLabels(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	for _, label := range []string{"", "noon", "25:00", "14:75"} {
		if _, err := Compose(date, label, time.UTC); err == nil {
			t.Fatalf("Compose(%q) should fail", label)
		}
	}
}
