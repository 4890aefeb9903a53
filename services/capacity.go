package services

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// approxRegexp strips a leading "c." / "c " approximation marker.
	approxRegexp = regexp.MustCompile(`(?i)^c\.?\s*`)
	// gigawattRegexp captures "1.45GW", "2 GW" style values.
	gigawattRegexp = regexp.MustCompile(`(?i)([\d.]+)\s*GW`)
	// megawattRegexp captures "50MW", "47.5 MW" style values.
	megawattRegexp = regexp.MustCompile(`(?i)([\d.]+)\s*MW`)
)

// ParseCapacityMW parses a free-text capacity expression ("50MW", "c.25MW",
// "1.45GW", "150MW / 300MWh") into megawatts. The second return value is
// false when the text carries no parseable capacity; zero is never
// manufactured from absent data.
func ParseCapacityMW(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	s = approxRegexp.ReplaceAllString(s, "")

	if m := gigawattRegexp.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1000, true
		}
	}
	if m := megawattRegexp.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
