package server_test

import (
	"net"
	"strconv"
	"testing"
	"time"

	"cmis-harness/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortRequest(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    server.PortRequest
		wantErr bool
	}{
		{"Dynamic", "dynamic", server.Dynamic(), false},
		{"DynamicUpper", "DYNAMIC", server.Dynamic(), false},
		{"Empty", "", server.Dynamic(), false},
		{"Nil", nil, server.Dynamic(), false},
		{"Zero", 0, server.Dynamic(), false},
		{"ZeroString", "0", server.Dynamic(), false},
		{"Int", 8080, server.Fixed(8080), false},
		{"String", "9090", server.Fixed(9090), false},
		{"Negative", -1, server.PortRequest{}, true},
		{"TooLarge", 70000, server.PortRequest{}, true},
		{"Word", "eighty", server.PortRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := server.ParsePortRequest(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, server.ErrInvalidPort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortRequest_String(t *testing.T) {
	assert.Equal(t, "dynamic", server.Dynamic().String())
	assert.Equal(t, "8080", server.Fixed(8080).String())
}

func TestPortRequest_Matches(t *testing.T) {
	assert.True(t, server.Fixed(8080).Matches(8080))
	assert.False(t, server.Fixed(8080).Matches(9090))
	assert.True(t, server.Dynamic().Matches(41234))
	assert.False(t, server.Dynamic().Matches(0))
}

func TestPortRequest_Resolve(t *testing.T) {
	t.Run("Fixed", func(t *testing.T) {
		p, err := server.Fixed(8080).Resolve(9090)
		require.NoError(t, err)
		assert.Equal(t, 8080, p)
	})

	t.Run("DynamicKeepsCurrent", func(t *testing.T) {
		p, err := server.Dynamic().Resolve(41234)
		require.NoError(t, err)
		assert.Equal(t, 41234, p)
	})

	t.Run("DynamicAllocates", func(t *testing.T) {
		p, err := server.Dynamic().Resolve(0)
		require.NoError(t, err)
		assert.Greater(t, p, 0)
	})
}

func TestFreePort(t *testing.T) {
	p, err := server.FreePort()
	require.NoError(t, err)
	assert.True(t, server.IsPortAvailable("127.0.0.1", p, time.Second))
}

func TestIsPortAvailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	assert.False(t, server.IsPortAvailable("127.0.0.1", port, time.Second), "port held by listener")

	require.NoError(t, ln.Close())
	assert.True(t, server.IsPortAvailable("127.0.0.1", port, time.Second), "port released")

	assert.False(t, server.IsPortAvailable("127.0.0.1", 0, time.Second))
	assert.False(t, server.IsPortAvailable("127.0.0.1", 70000, time.Second))
}

func TestIsPortAvailable_DefaultHost(t *testing.T) {
	p, err := server.FreePort()
	require.NoError(t, err)
	assert.True(t, server.IsPortAvailable("", p, time.Second), strconv.Itoa(p))
}
