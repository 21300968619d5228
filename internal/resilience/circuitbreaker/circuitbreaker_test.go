package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          20 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	require.NotNil(t, cb)
	assert.Equal(t, "test-circuit", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, cb.IsOpen())
}

func TestRun_Success(t *testing.T) {
	cb := New(testConfig())

	got, err := Run(cb, func() (string, error) { return "article text", nil })

	require.NoError(t, err)
	assert.Equal(t, "article text", got)
}

func TestRun_OpensAfterThreshold(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, err := Run(cb, func() (string, error) { return "", boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.True(t, cb.IsOpen())

	calls := 0
	_, err := Run(cb, func() (string, error) {
		calls++
		return "never", nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Zero(t, calls, "open circuit must not invoke fn")
}

func TestRun_BelowMinRequestsStaysClosed(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 2; i++ {
		_, _ = Run(cb, func() (int, error) { return 0, errors.New("fail") })
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestPresetConfigs(t *testing.T) {
	for _, cfg := range []Config{
		FeedFetchConfig(), ArticleFetchConfig(),
		PageFetchConfig(), OpenAIAPIConfig(), ClaudeAPIConfig(),
	} {
		assert.NotEmpty(t, cfg.Name)
		assert.Positive(t, cfg.Timeout)
		assert.Greater(t, cfg.FailureThreshold, 0.0)
		assert.LessOrEqual(t, cfg.FailureThreshold, 1.0)
	}
}

func TestRun_IsSuccessfulErrorsDoNotTrip(t *testing.T) {
	cfg := testConfig()
	notFound := errors.New("not found")
	cfg.IsSuccessful = func(err error) bool { return errors.Is(err, notFound) }
	cb := New(cfg)

	for i := 0; i < 5; i++ {
		_, err := Run(cb, func() (string, error) { return "", notFound })
		assert.ErrorIs(t, err, notFound, "error is still returned to the caller")
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestGroup_OneBreakerPerHost(t *testing.T) {
	g := NewGroup(testConfig())

	a := g.For("https://a.example/feed")
	assert.Same(t, a, g.For("https://a.example/other"))
	assert.Equal(t, "test-circuit:a.example", a.Name())

	for i := 0; i < 3; i++ {
		_, _ = Run(a, func() (int, error) { return 0, errors.New("down") })
	}
	require.True(t, a.IsOpen())

	b := g.For("https://b.example/feed")
	assert.NotSame(t, a, b)
	assert.False(t, b.IsOpen())

	got, err := Run(b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}
