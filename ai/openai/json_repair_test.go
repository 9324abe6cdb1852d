package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing opening quote after comma",
			input: `{"title": "Fix login", priority": "High"}`,
			want:  `{"title": "Fix login", "priority": "High"}`,
		},
		{
			name:  "missing opening quote after brace",
			input: `{title": "Fix login"}`,
			want:  `{"title": "Fix login"}`,
		},
		{
			name:  "valid input untouched",
			input: `{"title": "Fix login", "labels": ["Bug"]}`,
			want:  `{"title": "Fix login", "labels": ["Bug"]}`,
		},
		{
			name:  "bare word without closing quote untouched",
			input: `{"labels": [Bug]}`,
			want:  `{"labels": [Bug]}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := repairJSON(tc.input)
			assert.Equal(t, tc.want, got)
			if tc.name != "bare word without closing quote untouched" {
				assert.True(t, json.Valid([]byte(got)), "repaired output should be valid JSON")
			}
		})
	}
}
