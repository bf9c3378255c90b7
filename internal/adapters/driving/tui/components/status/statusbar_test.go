package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.NotNil(t, bar.Init)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(b *Bar)
		contains []string
	}{
		{
			name:     "ready shows match and hints",
			setup:    func(b *Bar) { b.SetUserMatch("al") },
			contains: []string{`match "al"`, "enter: commit line"},
		},
		{
			name: "completing shows generation",
			setup: func(b *Bar) {
				b.SetState(StateCompleting)
				b.SetCycle(7, 0)
			},
			contains: []string{"cycle #7..."},
		},
		{
			name: "results show count and popup hints",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetCycle(3, 2)
			},
			contains: []string{"cycle #3: 2", "tab: accept"},
		},
		{
			name: "error shows message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("boom")
			},
			contains: []string{"Error: boom"},
		},
		{
			name:     "ready shows message",
			setup:    func(b *Bar) { b.SetMessage("committed line 1") },
			contains: []string{"committed line 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			tt.setup(bar)
			view := bar.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetMessage("hello")
	bar.SetCycle(4, 5)
	bar.SetWidth(120)
	updated, cmd := bar.Update(nil)

	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, "hello", bar.Message())
	assert.Equal(t, 5, bar.Count())
	assert.Equal(t, 120, bar.Width())
}
