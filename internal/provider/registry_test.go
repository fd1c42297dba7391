package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/brainstorm/internal/domain"
	"github.com/gosuda/brainstorm/internal/provider"
)

// stubProvider is a minimal Provider for registry tests.
type stubProvider struct {
	text      string
	genErr    error
	models    []string
	modelsErr error
}

func (s *stubProvider) Generate(context.Context, domain.Agent, domain.Premise, []domain.Message) (string, error) {
	return s.text, s.genErr
}

func (s *stubProvider) Models(context.Context) ([]string, error) {
	return s.models, s.modelsErr
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		reg := provider.NewRegistry()
		reg.Register("mock", &stubProvider{text: "hi"})

		p, err := reg.Resolve("mock")
		require.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("unknown service type returns ErrUnknownProvider", func(t *testing.T) {
		t.Parallel()

		reg := provider.NewRegistry()

		p, err := reg.Resolve("nonexistent")
		require.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, provider.ErrUnknownProvider)
	})

	t.Run("Available returns sorted names", func(t *testing.T) {
		t.Parallel()

		reg := provider.NewRegistry()
		reg.Register("openai", &stubProvider{})
		reg.Register("anthropic", &stubProvider{})
		reg.Register("mock", &stubProvider{})

		assert.Equal(t, []string{"anthropic", "mock", "openai"}, reg.Available())
	})
}

func TestRegistry_WithModels(t *testing.T) {
	t.Parallel()

	reg := provider.NewRegistry()
	reg.Register("good", &stubProvider{models: []string{"m1", "m2"}})
	reg.Register("broken", &stubProvider{modelsErr: errors.New("listing boom")})
	reg.Register("empty", &stubProvider{})

	got := reg.WithModels(context.Background())

	// Failing and empty providers are omitted, not fatal.
	assert.Equal(t, map[string][]string{"good": {"m1", "m2"}}, got)
}
