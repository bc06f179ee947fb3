package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeAtYear calculates the age reached during a calendar year given a birth year.
// This is the convention the projection ledger uses: age = year - birthYear.
func AgeAtYear(birthYear, year int) int {
	return year - birthYear
}

// MonthsBetween returns the number of whole months from start to end.
// Returns 0 when end is not after start.
func MonthsBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// YearsBetween returns fractional years from start to end.
func YearsBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24 / 365.25
}
