package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input      string
		defaultVal bool
		expected   bool
	}{
		{"y", false, true},
		{"YES", false, true},
		{"n", true, false},
		{"no", true, false},
		{"", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseYesNo(tt.input, tt.defaultVal))
		})
	}
}

func TestParseSourceKinds(t *testing.T) {
	t.Run("keeps order and drops duplicates", func(t *testing.T) {
		kinds, err := parseSourceKinds([]string{"static", "Buffer", "static"})
		require.NoError(t, err)
		assert.Equal(t, []domain.SourceKind{domain.SourceStatic, domain.SourceBuffer}, kinds)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := parseSourceKinds([]string{"buffer", "git"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsShowCmd(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.store.Set("completion.debounce", "40ms"))

	out, err := execute(t, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Max results: 5")
	assert.Contains(t, out, "Debounce: 40ms")
	assert.Contains(t, out, "Max concurrent sources: unbounded")
	assert.Contains(t, out, "1. buffer")
	assert.Contains(t, out, "3. static")
	assert.Contains(t, out, "Level: info")
}

func TestSettingsSourcesCmd(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "settings", "sources", "static", "counter")
	require.NoError(t, err)
	assert.Contains(t, out, "Sources set to: static, counter")
	assert.Equal(t, []string{"static", "counter"}, env.store.GetStringSlice("sources.enabled"))

	_, err = execute(t, "settings", "sources", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "settings", "sources")
	assert.Error(t, err)
}

func TestSettingsMaxResultsCmd(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "settings", "max-results", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Max results set to: 8")
	assert.Equal(t, 8, env.store.GetInt("completion.max_results"))

	_, err = execute(t, "settings", "max-results", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "settings", "max-results", "many")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsWizardCmd(t *testing.T) {
	env := setupTestServices(t)

	// buffer, filesystem, static, counter, then max results.
	rootCmd.SetIn(strings.NewReader("n\n\ny\ny\n9\n"))
	defer rootCmd.SetIn(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "wizard"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Configuration Complete!")
	assert.Equal(t, []string{"filesystem", "static", "counter"}, env.store.GetStringSlice("sources.enabled"))
	assert.Equal(t, 9, env.store.GetInt("completion.max_results"))
}
