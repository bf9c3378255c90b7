package nvim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/keyword"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int
		ok   bool
	}{
		{"int", 3, 3, true},
		{"int64", int64(-1), -1, true},
		{"int8", int8(7), 7, true},
		{"uint64", uint64(9), 9, true},
		{"uint64 overflow", uint64(math.MaxUint64), 0, false},
		{"whole float", 4.0, 4, true},
		{"fractional float", 4.5, 0, false},
		{"string", "4", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToString(t *testing.T) {
	s, ok := toString([]byte("bytes"))
	assert.True(t, ok)
	assert.Equal(t, "bytes", s)

	_, ok = toString(1)
	assert.False(t, ok)
}

func TestToMap(t *testing.T) {
	m, ok := toMap(map[interface{}]interface{}{"a": 1, []byte("b"): 2})
	assert.True(t, ok)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, m)

	_, ok = toMap(map[interface{}]interface{}{1: "x"})
	assert.False(t, ok)

	_, ok = toMap([]interface{}{})
	assert.False(t, ok)
}

func TestArgHelpers(t *testing.T) {
	args := []interface{}{int64(1), "line", []interface{}{"a", []byte("b")}, nil}

	n, err := intArg("m", args, 0, "buffer")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	s, err := stringArg("m", args, 1, "line")
	assert.NoError(t, err)
	assert.Equal(t, "line", s)

	list, err := stringsArg("m", args, 2, "lines")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	_, err = stringArg("m", args, 3, "nil")
	assert.ErrorIs(t, err, domain.ErrMissingContext)
	assert.Contains(t, err.Error(), `"nil" is missing`)

	_, err = intArg("m", args, 9, "absent")
	assert.ErrorIs(t, err, domain.ErrMissingContext)
}

func TestWordBeforeCursor(t *testing.T) {
	m := keyword.Default()

	start, word := wordBeforeCursor(m, "call foo_ba", 11)
	assert.Equal(t, 5, start)
	assert.Equal(t, "foo_ba", word)

	// A cursor inside a multi-byte code point moves back to its start.
	start, word = wordBeforeCursor(m, "é", 1)
	assert.Equal(t, 0, start)
	assert.Equal(t, "", word)
}

