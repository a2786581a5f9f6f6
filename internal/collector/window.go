package collector

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is the resolved publish-date window for one collection run.
type Window struct {
	Start time.Time
	End   time.Time
	// Custom is set when the window came from an explicit start/end pair.
	// Custom windows are inclusive of the whole end day and bounded on both
	// sides; days-back windows only have a lower bound.
	Custom bool
}

// ResolveWindow turns trigger parameters into a Window. An explicit
// start/end pair in "D.M.YY" form takes precedence when both parse; a
// malformed pair silently degrades to daysBack.
func ResolveWindow(daysBack int, startDate, endDate string, now time.Time) Window {
	if startDate != "" && endDate != "" {
		start, errS := parseDayMonthYear(startDate)
		end, errE := parseDayMonthYear(endDate)
		if errS == nil && errE == nil {
			return Window{Start: start, End: end, Custom: true}
		}
	}
	return Window{Start: now.AddDate(0, 0, -daysBack), End: now}
}

// Contains reports whether a publish timestamp falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.Custom {
		// Inclusive of the full end day: 23:59 on the end date is in,
		// 00:01 the next day is out.
		return !t.Before(w.Start) && t.Before(w.End.AddDate(0, 0, 1))
	}
	return !t.Before(w.Start)
}

// String renders the window for trigger acknowledgments and logs.
func (w Window) String() string {
	if w.Custom {
		return fmt.Sprintf("%s to %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
	return fmt.Sprintf("since %s", w.Start.Format("2006-01-02"))
}

// parseDayMonthYear parses dates like "21.7.25" as 2025-07-21.
func parseDayMonthYear(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: want D.M.YY", s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in %q", s)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in %q", s)
	}

	if day < 1 || day > 31 || month < 1 || month > 12 || year < 0 || year > 99 {
		return time.Time{}, fmt.Errorf("date %q out of range", s)
	}

	return time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
