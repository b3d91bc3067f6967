package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("VKINE_TEST_URI", "mongodb://db:27017")
	t.Setenv("VKINE_TEST_EMPTY", "")
	t.Setenv("VKINE_TEST_DRIVER", "sqlite")

	tests := []struct {
		name        string
		input       string
		want        string
		wantMissing []string
	}{
		{
			name:  "simple",
			input: `uri = "${VKINE_TEST_URI}"`,
			want:  `uri = "mongodb://db:27017"`,
		},
		{
			name:        "missing left in place",
			input:       `uri = "${VKINE_TEST_NONEXISTENT_12345}"`,
			want:        `uri = "${VKINE_TEST_NONEXISTENT_12345}"`,
			wantMissing: []string{"VKINE_TEST_NONEXISTENT_12345"},
		},
		{
			name:  "empty value is still set",
			input: `x = "${VKINE_TEST_EMPTY}"`,
			want:  `x = ""`,
		},
		{
			name:  "default when empty",
			input: `driver = "${VKINE_TEST_EMPTY:-mongo}"`,
			want:  `driver = "mongo"`,
		},
		{
			name:  "default when unset",
			input: `driver = "${VKINE_TEST_NONEXISTENT_12345:-mongo}"`,
			want:  `driver = "mongo"`,
		},
		{
			name:  "env overrides default",
			input: `driver = "${VKINE_TEST_DRIVER:-mongo}"`,
			want:  `driver = "sqlite"`,
		},
		{
			name:        "required with message",
			input:       `uri = "${VKINE_TEST_EMPTY:?mongo uri is required}"`,
			want:        `uri = "${VKINE_TEST_EMPTY:?mongo uri is required}"`,
			wantMissing: []string{"VKINE_TEST_EMPTY: mongo uri is required"},
		},
		{
			name:        "multiple",
			input:       `${VKINE_TEST_DRIVER} ${VKINE_VAR2_NONEXISTENT} ${VKINE_TEST_EMPTY:-three}`,
			want:        `sqlite ${VKINE_VAR2_NONEXISTENT} three`,
			wantMissing: []string{"VKINE_VAR2_NONEXISTENT"},
		},
		{
			name:  "not a variable",
			input: `price = "$5" note = "${not a var}"`,
			want:  `price = "$5" note = "${not a var}"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}
