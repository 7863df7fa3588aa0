package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Season window: NBA seasons run October through June of the following year.
const (
	seasonStartMonth = time.October
	seasonEndMonth   = time.June
)

var seasonLabelRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// SeasonForDate returns the season label covering the given date,
// e.g. 2024-01-15 -> "2023-24".
func SeasonForDate(d time.Time) string {
	year := d.Year()
	if d.Month() < seasonStartMonth {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// CurrentSeason returns the season label for the current date
func CurrentSeason(now time.Time) string {
	return SeasonForDate(now)
}

// SeasonWindow returns the first and last candidate game dates for a season
// label, spanning October 1 of the start year through June 30 of the next.
func SeasonWindow(label string) (start, end time.Time, err error) {
	m := seasonLabelRe.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid season label %q (want e.g. \"2023-24\")", label)
	}

	startYear, _ := strconv.Atoi(m[1])
	endSuffix, _ := strconv.Atoi(m[2])
	if (startYear+1)%100 != endSuffix {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid season label %q: years are not consecutive", label)
	}

	start = time.Date(startYear, seasonStartMonth, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(startYear+1, seasonEndMonth, 30, 0, 0, 0, 0, time.UTC)
	return start, end, nil
}
