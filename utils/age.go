package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// AgeAt computes a person's age at the given reference time: the year
// difference, decremented by one when (month, day) of the reference date
// precedes (month, day) of the birth date. Every view that displays an age
// must go through this function so the results agree.
func AgeAt(birthDate string, at time.Time) (int, error) {
	born, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return 0, fmt.Errorf("invalid birth date %q: %w", birthDate, err)
	}
	if born.After(at) {
		return 0, fmt.Errorf("birth date %q is in the future", birthDate)
	}

	age := at.Year() - born.Year()
	if at.Month() < born.Month() || (at.Month() == born.Month() && at.Day() < born.Day()) {
		age--
	}
	return age, nil
}

// Age is AgeAt against the current clock.
func Age(birthDate string) (int, error) {
	return AgeAt(birthDate, time.Now())
}
