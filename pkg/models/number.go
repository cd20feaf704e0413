package models

import "strconv"

// ParseNumber converts dirty currency text into a float. Currency symbols,
// thousands separators and stray characters are stripped; anything that still
// fails to parse becomes 0. It never returns an error: per-field data-quality
// problems degrade to zero instead of aborting a run.
func ParseNumber(value string) float64 {
	if value == "" {
		return 0
	}
	cleaned := make([]rune, 0, len(value))
	for _, c := range value {
		if (c >= '0' && c <= '9') || c == '.' || c == '-' {
			cleaned = append(cleaned, c)
		}
	}
	result, err := strconv.ParseFloat(string(cleaned), 64)
	if err != nil {
		return 0
	}
	return result
}

// FormatNumber renders a computed amount with the minimal digits that
// round-trip, e.g. 118 not 118.000000.
func FormatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
