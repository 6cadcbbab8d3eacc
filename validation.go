package yast

import (
	"fmt"
	"regexp"
)

var tickerRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,4}$`)

// ValidateTicker checks if a string is a plausible US exchange symbol.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateTicker(ticker string) error {
	// 1. Length validation
	if len(ticker) == 0 || len(ticker) > 5 {
		return fmt.Errorf("invalid ticker %q: must be 1 to 5 characters", ticker)
	}

	// 2. Format validation
	if !tickerRegex.MatchString(ticker) {
		return fmt.Errorf("invalid ticker %q: must be uppercase letters and digits, starting with a letter", ticker)
	}

	return nil
}
