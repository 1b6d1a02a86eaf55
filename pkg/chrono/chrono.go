// Package chrono provides the calendar helpers shared by the GoutHelper
// validators: whole-year age from a date of birth and its inverse.
package chrono

import "time"

// Age returns the whole number of years between dob and now: calendar years
// are subtracted, then decremented if the anniversary has not yet occurred
// this year. A Feb-29 birthday counts from Feb 28 in non-leap years.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	anniversary := monthDay(dob.Month(), dob.Day())
	if monthDay(now.Month(), now.Day()) < anniversary {
		years--
	}
	return years
}

// AgeAt is Age with the reference time defaulted to the current UTC date.
func AgeAt(dob time.Time) int {
	return Age(dob, time.Now().UTC())
}

// YearsAgo returns the date n years before from, adjusting a Feb-29 source
// date to Feb 28 when the target year is not a leap year.
func YearsAgo(n int, from time.Time) time.Time {
	year := from.Year() - n
	month, day := from.Month(), from.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}

func monthDay(m time.Month, d int) int {
	return int(m)*100 + d
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
