package server

import (
	"strings"
	"time"
)

// Config holds configuration for the embedded HTTP server.
type Config struct {
	// Host is the interface the server binds to.
	Host string `mapstructure:"host" default:"127.0.0.1"`
	// Port is either a TCP port number or "dynamic" for an ephemeral free port.
	Port string `mapstructure:"port" default:"dynamic"`
	// ContextPath is the fixed base path the hosted application is mounted under.
	ContextPath string `mapstructure:"context_path" default:"/cmis/"`
	// StartTimeoutSeconds bounds how long a start waits for the server to answer.
	StartTimeoutSeconds int `mapstructure:"start_timeout_seconds" default:"30"`
	// ProbeTimeoutMillis bounds the port availability probe.
	ProbeTimeoutMillis int `mapstructure:"probe_timeout_ms" default:"500"`
	// CMISVersion is the protocol version advertised by the hosted repository (1.0, 1.1).
	CMISVersion string `mapstructure:"cmis_version" default:"1.1"`
	// Username enables basic auth on the hosted application when set.
	Username string `mapstructure:"username" default:""`
	// Password is the basic auth password paired with Username.
	Password string `mapstructure:"password" default:""`
}

const (
	CMISVersion10 = "1.0"
	CMISVersion11 = "1.1"

	// BrowserBindingPath is the CMIS endpoint path relative to the context path.
	BrowserBindingPath = "browser"
)

// IsValidCMISVersion checks if the configured CMIS version is supported.
func (c Config) IsValidCMISVersion() bool {
	switch c.CMISVersion {
	case CMISVersion10, CMISVersion11:
		return true
	default:
		return false
	}
}

// NormalizedContextPath returns the context path with exactly one leading and
// one trailing slash. An empty path maps to "/".
func (c Config) NormalizedContextPath() string {
	p := strings.Trim(c.ContextPath, "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// StartTimeout returns the start timeout, defaulting to 30 seconds.
func (c Config) StartTimeout() time.Duration {
	if c.StartTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.StartTimeoutSeconds) * time.Second
}

// ProbeTimeout returns the port probe timeout, defaulting to 500ms.
func (c Config) ProbeTimeout() time.Duration {
	if c.ProbeTimeoutMillis <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.ProbeTimeoutMillis) * time.Millisecond
}

// BindHost returns the host to bind, defaulting to loopback.
func (c Config) BindHost() string {
	if c.Host == "" {
		return "127.0.0.1"
	}
	return c.Host
}

// DialHost returns the host clients should dial. Wildcard binds are reached
// through loopback.
func (c Config) DialHost() string {
	switch h := c.BindHost(); h {
	case "0.0.0.0", "::", "[::]":
		return "127.0.0.1"
	default:
		return h
	}
}
