package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "leading and trailing spaces",
			input:    "  Marie Dupont  ",
			expected: "Marie Dupont",
		},
		{
			name:     "collapse internal whitespace",
			input:    "Marie   \t Dupont",
			expected: "Marie Dupont",
		},
		{
			name:     "newlines collapsed",
			input:    "Marie\nDupont",
			expected: "Marie Dupont",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    " \t\n ",
			expected: "",
		},
		{
			name:     "accents preserved",
			input:    "  Chloé  Lefèvre ",
			expected: "Chloé Lefèvre",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimAndNormalize(tt.input)
			if result != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
