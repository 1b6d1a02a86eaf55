package chrono

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		now  time.Time
		want int
	}{
		{"birthday today", date(1980, time.June, 15), date(2025, time.June, 15), 45},
		{"day before birthday", date(1980, time.June, 15), date(2025, time.June, 14), 44},
		{"day after birthday", date(1980, time.June, 15), date(2025, time.June, 16), 45},
		{"earlier month", date(1980, time.December, 1), date(2025, time.June, 1), 44},
		{"leap birthday, non-leap year Feb 28", date(2000, time.February, 29), date(2025, time.February, 28), 24},
		{"leap birthday, non-leap year Mar 1", date(2000, time.February, 29), date(2025, time.March, 1), 25},
		{"leap birthday, leap year Feb 29", date(2000, time.February, 29), date(2024, time.February, 29), 24},
		{"newborn", date(2025, time.January, 1), date(2025, time.June, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.dob, tt.now); got != tt.want {
				t.Errorf("Age(%v, %v) = %d, want %d", tt.dob, tt.now, got, tt.want)
			}
		})
	}
}

func TestAgeMonotoneInTime(t *testing.T) {
	dob := date(1975, time.February, 28)
	prev := Age(dob, date(2020, time.January, 1))
	for _, now := range []time.Time{
		date(2020, time.June, 1),
		date(2021, time.February, 27),
		date(2021, time.February, 28),
		date(2023, time.December, 31),
		date(2030, time.January, 1),
	} {
		got := Age(dob, now)
		if got < prev {
			t.Fatalf("age went backwards: %d then %d at %v", prev, got, now)
		}
		prev = got
	}
}

func TestYearsAgo(t *testing.T) {
	got := YearsAgo(30, date(2025, time.June, 15))
	if want := date(1995, time.June, 15); !got.Equal(want) {
		t.Errorf("YearsAgo(30) = %v, want %v", got, want)
	}

	// Feb 29 collapses to Feb 28 in non-leap target years.
	got = YearsAgo(1, date(2024, time.February, 29))
	if want := date(2023, time.February, 28); !got.Equal(want) {
		t.Errorf("YearsAgo from leap day = %v, want %v", got, want)
	}

	// Leap year to leap year keeps Feb 29.
	got = YearsAgo(4, date(2024, time.February, 29))
	if want := date(2020, time.February, 29); !got.Equal(want) {
		t.Errorf("YearsAgo leap-to-leap = %v, want %v", got, want)
	}
}

func TestAgeYearsAgoRoundTrip(t *testing.T) {
	now := date(2025, time.September, 1)
	for years := 18; years <= 100; years++ {
		dob := YearsAgo(years, now)
		if got := Age(dob, now); got != years {
			t.Errorf("Age(YearsAgo(%d)) = %d", years, got)
		}
	}
}
