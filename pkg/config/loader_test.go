package config

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// LoadEnvString / LoadEnvWithFallback
// ============================================================================

func TestLoadEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "custom_value")
	assert.Equal(t, "custom_value", LoadEnvString("TEST_STRING", "default_value"))

	t.Setenv("TEST_STRING", "")
	assert.Equal(t, "default_value", LoadEnvString("TEST_STRING", "default_value"))
}

func TestLoadEnvWithFallback_ValidURL(t *testing.T) {
	t.Setenv("TEST_URL", "https://example.com/feed")

	result := LoadEnvWithFallback("TEST_URL", "https://default.local", ValidateHTTPURL)

	assert.Equal(t, "https://example.com/feed", result.Value)
	assert.Empty(t, result.Warnings)
	assert.False(t, result.FallbackApplied)
}

func TestLoadEnvWithFallback_InvalidURL(t *testing.T) {
	t.Setenv("TEST_URL", "ftp://example.com")

	result := LoadEnvWithFallback("TEST_URL", "https://default.local", ValidateHTTPURL)

	assert.Equal(t, "https://default.local", result.Value)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "TEST_URL")
	assert.True(t, result.FallbackApplied)
}

// ============================================================================
// LoadEnvDuration
// ============================================================================

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		want         time.Duration
		wantFallback bool
	}{
		{name: "unset", value: "", want: 8 * time.Second},
		{name: "valid", value: "3s", want: 3 * time.Second},
		{name: "unparseable", value: "soon", want: 8 * time.Second, wantFallback: true},
		{name: "negative", value: "-1s", want: 8 * time.Second, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)

			result := LoadEnvDuration("TEST_DURATION", 8*time.Second, ValidatePositiveDuration)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

// ============================================================================
// LoadEnvInt
// ============================================================================

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1, 5000) }

	t.Setenv("TEST_INT", "400")
	result := LoadEnvInt("TEST_INT", 300, inRange)
	assert.Equal(t, 400, result.Value)
	assert.False(t, result.FallbackApplied)

	t.Setenv("TEST_INT", "abc")
	result = LoadEnvInt("TEST_INT", 300, inRange)
	assert.Equal(t, 300, result.Value)
	assert.True(t, result.FallbackApplied)

	t.Setenv("TEST_INT", "0")
	result = LoadEnvInt("TEST_INT", 300, inRange)
	assert.Equal(t, 300, result.Value)
	assert.True(t, result.FallbackApplied)
}

// ============================================================================
// env helpers
// ============================================================================

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, GetEnvBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "0")
	assert.False(t, GetEnvBool("TEST_BOOL", true))

	t.Setenv("TEST_BOOL", "maybe")
	assert.True(t, GetEnvBool("TEST_BOOL", true))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("TEST_LIST", " https://a.example/feed ,, https://b.example/rss ")
	assert.Equal(t,
		[]string{"https://a.example/feed", "https://b.example/rss"},
		GetEnvStringList("TEST_LIST", nil))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvStringList("TEST_LIST", []string{"x"}))
}

// ============================================================================
// validators and metrics
// ============================================================================

func TestValidateHTTPURL(t *testing.T) {
	assert.NoError(t, ValidateHTTPURL("http://example.com/rss"))
	assert.Error(t, ValidateHTTPURL(""))
	assert.Error(t, ValidateHTTPURL("file:///etc/passwd"))
	assert.Error(t, ValidateHTTPURL("https://"))
}

func TestValidateDuration_InvalidRange(t *testing.T) {
	err := ValidateDuration(time.Second, time.Minute, time.Second)
	assert.ErrorContains(t, err, "invalid range")
}

func TestConfigMetrics_RecordFallback(t *testing.T) {
	m := NewConfigMetrics("test")
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	m.RecordFallback("page_timeout")
	m.SetFallbackActive(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("page_timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("page_timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
}
