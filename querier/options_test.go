package querier

import (
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, defaultListenTime, r.defaultTimeout)
	assert.Equal(t, 100, r.rateLimitThreshold)
	assert.Equal(t, time.Minute, r.rateLimitCooldown)
}

func TestWithTimeout(t *testing.T) {
	r, err := New(WithTimeout(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, r.defaultTimeout)
}

func TestWithLogger_RejectsNil(t *testing.T) {
	_, err := New(WithLogger(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger cannot be nil")
}

func TestWithLogger_Accepted(t *testing.T) {
	logger := slog.Default()
	r, err := New(WithLogger(logger))
	require.NoError(t, err)
	assert.Same(t, logger, r.logger)
}

func TestWithInterfaces(t *testing.T) {
	tests := []struct {
		name        string
		ifaces      []net.Interface
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid interface list",
			ifaces: []net.Interface{{Name: "eth0", Index: 1}},
		},
		{
			name:        "empty interface list",
			ifaces:      []net.Interface{},
			expectError: true,
			errorMsg:    "interface list cannot be empty",
		},
		{
			name:        "nil interface list",
			ifaces:      nil,
			expectError: true,
			errorMsg:    "interface list cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(WithInterfaces(tt.ifaces))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, r.explicitInterfaces, len(tt.ifaces))
		})
	}
}

func TestWithInterfaceFilter(t *testing.T) {
	t.Run("valid filter", func(t *testing.T) {
		filter := func(iface net.Interface) bool { return iface.Name == "eth0" }
		r, err := New(WithInterfaceFilter(filter))
		require.NoError(t, err)
		assert.NotNil(t, r.interfaceFilter)
	})

	t.Run("nil filter rejected", func(t *testing.T) {
		_, err := New(WithInterfaceFilter(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "filter function cannot be nil")
	})
}

func TestWithRateLimit(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		r, err := New(WithRateLimit(enabled))
		require.NoError(t, err)
		assert.Equal(t, enabled, r.rateLimitEnabled)
	}
}

func TestWithRateLimitThreshold(t *testing.T) {
	tests := []struct {
		threshold   int
		expectError bool
	}{
		{100, false},
		{1, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		r, err := New(WithRateLimitThreshold(tt.threshold))
		if tt.expectError {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "threshold must be greater than 0")
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.threshold, r.rateLimitThreshold)
	}
}

func TestWithRateLimitCooldown(t *testing.T) {
	tests := []struct {
		cooldown    time.Duration
		expectError bool
	}{
		{60 * time.Second, false},
		{0, true},
		{-1 * time.Second, true},
	}

	for _, tt := range tests {
		r, err := New(WithRateLimitCooldown(tt.cooldown))
		if tt.expectError {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cooldown must be greater than 0")
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.cooldown, r.rateLimitCooldown)
	}
}
