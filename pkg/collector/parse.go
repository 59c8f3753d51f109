package collector

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parsePercent accepts "12.5", "12,5" (some locales) and "12.5%".
func parsePercent(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if s == "" {
		return 0, errEmptyOutput
	}

	// multi-line output keeps only the first reading
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	s = strings.TrimSuffix(s, "%")
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %v", errOutOfRange, v)
	}

	return v, nil
}

// parseUptime reads the first field of /proc/uptime in whole seconds.
func parseUptime(out string) (int64, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, errEmptyOutput
	}

	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, err
	}

	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if math.IsNaN(v) || v < 0 || v >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("%w: %v", errOutOfRange, v)
	}

	return int64(v), nil
}

// parseServiceState returns the systemctl is-active word.
func parseServiceState(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", errEmptyOutput
	}

	return fields[0], nil
}
