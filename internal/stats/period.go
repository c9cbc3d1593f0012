package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuincenaWindow parses a period token "YYYY-MM-1" or "YYYY-MM-2" into a
// half-open [from, to) window. The first quincena runs days 1-15, the second
// day 16 through the end of the month.
func QuincenaWindow(token string) (time.Time, time.Time, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 3 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q: expected YYYY-MM-1 or YYYY-MM-2", token)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period year %q", parts[0])
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period month %q", parts[1])
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	mid := from.AddDate(0, 0, 15)

	switch parts[2] {
	case "1":
		return from, mid, nil
	case "2":
		return mid, from.AddDate(0, 1, 0), nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("invalid quincena %q: expected 1 or 2", parts[2])
}

// CurrentQuincena returns the period token for a point in time.
func CurrentQuincena(now time.Time) string {
	half := 1
	if now.Day() > 15 {
		half = 2
	}
	return fmt.Sprintf("%04d-%02d-%d", now.Year(), int(now.Month()), half)
}
