package pet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseGender(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    Gender
		expectError bool
	}{
		{name: "male", input: "MALE", expected: Male},
		{name: "female", input: "FEMALE", expected: Female},
		{name: "unknown", input: "UNKNOWN", expected: Unknown},
		{name: "case sensitive", input: "male", expectError: true},
		{name: "empty", input: "", expectError: true},
		{name: "outside the set", input: "OTHER", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseGender(tc.input)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, parsed)
		})
	}
}

func Test_Gender_ZeroValueIsUnknown(t *testing.T) {
	var g Gender
	assert.Equal(t, "UNKNOWN", g.String())
}

func Test_Gender_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Female)
	require.NoError(t, err)
	assert.Equal(t, `"FEMALE"`, string(data))
}

func Test_Gender_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    Gender
		expectError bool
	}{
		{name: "valid name", input: `"MALE"`, expected: Male},
		{name: "invalid name", input: `"DOG"`, expectError: true},
		{name: "lowercase rejected", input: `"female"`, expectError: true},
		{name: "not a string", input: `7`, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var g Gender
			err := json.Unmarshal([]byte(tc.input), &g)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, g)
		})
	}
}
