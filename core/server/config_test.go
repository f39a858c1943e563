package server_test

import (
	"testing"
	"time"

	"cmis-harness/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidCMISVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    bool
	}{
		{"1.0", server.CMISVersion10, true},
		{"1.1", server.CMISVersion11, true},
		{"Invalid", "2.0", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{CMISVersion: tt.version}
			assert.Equal(t, tt.want, c.IsValidCMISVersion())
		})
	}
}

func TestConfig_NormalizedContextPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/cmis/", "/cmis/"},
		{"cmis", "/cmis/"},
		{"//cmis", "/cmis/"},
		{"", "/"},
		{"/", "/"},
		{"a/b", "/a/b/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, server.Config{ContextPath: tt.in}.NormalizedContextPath())
		})
	}
}

func TestConfig_Timeouts(t *testing.T) {
	assert.Equal(t, 30*time.Second, server.Config{}.StartTimeout())
	assert.Equal(t, 5*time.Second, server.Config{StartTimeoutSeconds: 5}.StartTimeout())
	assert.Equal(t, 500*time.Millisecond, server.Config{}.ProbeTimeout())
	assert.Equal(t, 50*time.Millisecond, server.Config{ProbeTimeoutMillis: 50}.ProbeTimeout())
}

func TestConfig_Hosts(t *testing.T) {
	assert.Equal(t, "127.0.0.1", server.Config{}.BindHost())
	assert.Equal(t, "127.0.0.1", server.Config{Host: "0.0.0.0"}.DialHost())
	assert.Equal(t, "localhost", server.Config{Host: "localhost"}.DialHost())
}
