package render

import "strings"

// NormalizeEIN strips separators and left-pads to the 9-digit wire format.
// The same normalized value must appear everywhere an EIN is emitted.
func NormalizeEIN(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	for len(normalized) < 9 {
		normalized = "0" + normalized
	}
	return normalized
}
