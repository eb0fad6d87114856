package jobtable

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts the compact dot notation into seconds.
//
// One dot means MINUTES.SECONDS: "2.57" is 2m57s = 177s, not a decimal
// fraction. Two dots mean HOURS.MINUTES.SECONDS. Anything else is read
// as a plain floating-point number of seconds.
func ParseTimestamp(token string) (float64, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return 0, fmt.Errorf("empty timestamp token")
	}

	parts := strings.Split(t, ".")
	switch len(parts) {
	case 2:
		minutes, err := parseClockPart(parts[0])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", t, err)
		}
		seconds, err := parseClockPart(parts[1])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", t, err)
		}
		return float64(minutes*60 + seconds), nil
	case 3:
		hours, err := parseClockPart(parts[0])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", t, err)
		}
		minutes, err := parseClockPart(parts[1])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", t, err)
		}
		seconds, err := parseClockPart(parts[2])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", t, err)
		}
		return float64(hours*3600 + minutes*60 + seconds), nil
	default:
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q is not numeric", t)
		}
		if v < 0 {
			return 0, fmt.Errorf("timestamp %q is negative", t)
		}
		return v, nil
	}
}

func parseClockPart(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("part %q is not an integer", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("part %q is negative", s)
	}
	return v, nil
}

// SplitTimestampCell breaks a semicolon-joined cell into tokens, dropping
// empties from trailing or doubled separators. Order is preserved.
func SplitTimestampCell(cell string) []string {
	raw := strings.Split(cell, ";")
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}
