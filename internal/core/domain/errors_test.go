package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrClosed", ErrClosed},
		{"ErrParse", ErrParse},
		{"ErrMissingContext", ErrMissingContext},
		{"ErrSourceFailure", ErrSourceFailure},
		{"ErrIOFailure", ErrIOFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrClosed,
		ErrParse, ErrMissingContext, ErrSourceFailure, ErrIOFailure,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("v_char: %w", ErrMissingContext)

	assert.True(t, errors.Is(err, ErrMissingContext))
	assert.Contains(t, err.Error(), "missing context")
}
