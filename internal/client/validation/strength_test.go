package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw    string
		label string
		pct   int
	}{
		{"", "", 0},
		{"abc", "Weak", 33},
		{"abcdefgh", "Weak", 33},
		{"Abcdefgh1", "Medium", 66},
		{"abcdefghijkl1", "Medium", 66},
		{"Abcdefgh1!", "Strong", 100},
		{"Ab1!Ab1!Ab1!", "Strong", 100},
		{"😀😀😀😀", "Weak", 33},
		{"a1😀😀😀", "Medium", 66},
	}

	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			got := PasswordStrength(tt.pw)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.pct, got.Percent)
		})
	}
}

func TestPasswordStrength_EmptyIsZeroValue(t *testing.T) {
	assert.Equal(t, Strength{}, PasswordStrength(""))
}

func TestPasswordStrength_Colors(t *testing.T) {
	assert.Equal(t, "#ef4444", PasswordStrength("a").Color)
	assert.Equal(t, "#f59e0b", PasswordStrength("Abcdefgh1").Color)
	assert.Equal(t, "#22c55e", PasswordStrength("Ab1!Ab1!Ab1!").Color)
}
