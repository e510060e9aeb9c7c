package validation

import (
	"regexp"
)

var (
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Strength is the advisory password strength shown on the register form.
// It never gates submission.
type Strength struct {
	// Percent is the meter fill: 0, 33, 66 or 100.
	Percent int
	// Label is "", "Weak", "Medium" or "Strong".
	Label string
	// Color is the meter color as a hex string.
	Color string
}

// PasswordStrength scores pw by counting the satisfied predicates among
// length >= 8, length >= 12 (UTF-16 code units), an uppercase letter, a digit and a symbol.
func PasswordStrength(pw string) Strength {
	if pw == "" {
		return Strength{}
	}

	n := textLength(pw)
	score := 0
	for _, ok := range []bool{
		n >= 8,
		n >= 12,
		upperPattern.MatchString(pw),
		digitPattern.MatchString(pw),
		symbolPattern.MatchString(pw),
	} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return Strength{Percent: 33, Label: "Weak", Color: "#ef4444"}
	case score <= 3:
		return Strength{Percent: 66, Label: "Medium", Color: "#f59e0b"}
	default:
		return Strength{Percent: 100, Label: "Strong", Color: "#22c55e"}
	}
}
