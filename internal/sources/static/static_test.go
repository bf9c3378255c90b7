package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/services"
)

func TestNew(t *testing.T) {
	t.Run("skips empty words", func(t *testing.T) {
		src := New("alpha", "", "beta")
		assert.Equal(t, 2, src.Len())
	})

	t.Run("no words", func(t *testing.T) {
		src := New()
		got, err := src.Produce(context.Background(), domain.MatchContext{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSource_Produce(t *testing.T) {
	t.Run("returns neutral entries", func(t *testing.T) {
		src := New("alpha", "beta")

		got, err := src.Produce(context.Background(), domain.MatchContext{UserMatch: "al"})
		require.NoError(t, err)
		assert.Equal(t, []domain.Entry{domain.NewEntry("alpha"), domain.NewEntry("beta")}, got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		src := New("alpha", "album", "beta")
		mc := domain.MatchContext{UserMatch: "a"}

		first, err := src.Produce(context.Background(), mc)
		require.NoError(t, err)
		second, err := src.Produce(context.Background(), mc)
		require.NoError(t, err)

		assert.ElementsMatch(t, first, second)
	})

	t.Run("callers cannot mutate the list", func(t *testing.T) {
		src := New("alpha")

		got, err := src.Produce(context.Background(), domain.MatchContext{})
		require.NoError(t, err)
		got[0].Text = "mutated"

		again, err := src.Produce(context.Background(), domain.MatchContext{})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha"}, domain.Texts(again))
	})
}

func TestSource_ThroughCompletor(t *testing.T) {
	c := services.NewCompletor(domain.DefaultCompletionSettings(), nil)
	defer c.Close()
	require.NoError(t, c.Register("static", New("alpha", "album", "beta")))
	for _, r := range "al" {
		require.NoError(t, c.TypeChar(string(r)))
	}

	got, err := c.CompleteSync(context.Background(), domain.MatchContext{UserMatch: c.UserMatch()}, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"alpha", "album"}, domain.Texts(got))
	require.Len(t, got, 2)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
}
