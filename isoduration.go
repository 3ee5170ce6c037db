package openspout

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Nominal ISO 8601 designators have no calendar context here, so they
// convert with fixed factors. Time-of-day cells rarely carry them, but
// files produced by date arithmetic can.
const (
	durDay   = 24 * time.Hour
	durWeek  = 7 * durDay
	durMonth = 30 * durDay
	durYear  = 365 * durDay
)

// parseISODuration parses an ISO 8601 duration such as "PT16H39M05S",
// "P1DT2H" or "-PT0.5S". At least one component must be present and only
// the seconds component may carry a fraction.
func parseISODuration(s string) (time.Duration, error) {
	orig := s
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'P' {
		return 0, fmt.Errorf("duration %q: missing 'P' designator", orig)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	components := 0

	for len(s) > 0 {
		if s[0] == 'T' {
			if inTime {
				return 0, fmt.Errorf("duration %q: repeated 'T' designator", orig)
			}
			inTime = true
			s = s[1:]
			continue
		}

		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == 0 || i == len(s) {
			return 0, fmt.Errorf("duration %q: malformed component", orig)
		}
		number, unit := s[:i], s[i]
		s = s[i+1:]

		d, err := durationComponent(number, unit, inTime)
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", orig, err)
		}
		if d > maxDuration-total {
			return 0, fmt.Errorf("duration %q: component sum overflows", orig)
		}
		total += d
		components++
	}

	if components == 0 {
		return 0, fmt.Errorf("duration %q: no components", orig)
	}
	if neg {
		total = -total
	}
	return total, nil
}

func durationComponent(number string, unit byte, inTime bool) (time.Duration, error) {
	if strings.Contains(number, ".") {
		if !inTime || unit != 'S' {
			return 0, fmt.Errorf("fractional %c component", unit)
		}
		secs, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, err
		}
		if secs > float64(maxDuration/time.Second) {
			return 0, fmt.Errorf("%s%c overflows", number, unit)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}

	n, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return 0, err
	}
	var scale time.Duration
	switch {
	case !inTime && unit == 'Y':
		scale = durYear
	case !inTime && unit == 'M':
		scale = durMonth
	case !inTime && unit == 'W':
		scale = durWeek
	case !inTime && unit == 'D':
		scale = durDay
	case inTime && unit == 'H':
		scale = time.Hour
	case inTime && unit == 'M':
		scale = time.Minute
	case inTime && unit == 'S':
		scale = time.Second
	default:
		return 0, fmt.Errorf("unexpected designator %c", unit)
	}
	if n > int64(maxDuration/scale) {
		return 0, fmt.Errorf("%d%c overflows", n, unit)
	}
	return time.Duration(n) * scale, nil
}

const maxDuration = time.Duration(1<<63 - 1)
