package fetcher

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"::1", true},
		{"fc00::1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, validateURL("https://example.com/a", false))
	assert.NoError(t, validateURL("http://127.0.0.1:8080/a", false))

	assert.ErrorIs(t, validateURL("https:///nohost", false), ErrInvalidURL)
	assert.ErrorIs(t, validateURL("gopher://example.com", false), ErrInvalidURL)
	assert.ErrorIs(t, validateURL("http://10.0.0.1/", true), ErrPrivateIP)
}
