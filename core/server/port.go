package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"cmis-harness/core/utils"
)

// DynamicPort is the configuration value that requests an ephemeral free port.
const DynamicPort = "dynamic"

// ErrInvalidPort is returned for port values that are neither a valid TCP port
// nor the dynamic sentinel.
var ErrInvalidPort = errors.New("invalid port")

// PortRequest is the port a suite asks for: a fixed port or any free port.
type PortRequest struct {
	Port    int
	Dynamic bool
}

// Dynamic returns a request for any free port.
func Dynamic() PortRequest {
	return PortRequest{Dynamic: true}
}

// Fixed returns a request for exactly port p.
func Fixed(p int) PortRequest {
	return PortRequest{Port: p}
}

// ParsePortRequest accepts a port number (int or numeric string) or the
// dynamic sentinel. Empty and zero values are treated as dynamic.
func ParsePortRequest(v any) (PortRequest, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, DynamicPort) {
			return Dynamic(), nil
		}
	}
	if v == nil {
		return Dynamic(), nil
	}
	p, err := utils.ToInt(v)
	if err != nil {
		return PortRequest{}, fmt.Errorf("%w: %q", ErrInvalidPort, utils.ToString(v))
	}
	if p == 0 {
		return Dynamic(), nil
	}
	if p < 0 || p > 65535 {
		return PortRequest{}, fmt.Errorf("%w: %d is outside 1-65535", ErrInvalidPort, p)
	}
	return Fixed(p), nil
}

func (r PortRequest) String() string {
	if r.Dynamic {
		return DynamicPort
	}
	return strconv.Itoa(r.Port)
}

// Matches reports whether a server bound to port satisfies the request.
// A dynamic request is satisfied by any bound port.
func (r PortRequest) Matches(port int) bool {
	if r.Dynamic {
		return port > 0
	}
	return r.Port == port
}

// Resolve turns the request into a concrete port. current is the port of the
// running server (0 when none runs); a dynamic request keeps it.
func (r PortRequest) Resolve(current int) (int, error) {
	if !r.Dynamic {
		return r.Port, nil
	}
	if current > 0 {
		return current, nil
	}
	return FreePort()
}

// FreePort binds an ephemeral loopback socket, reads its port and releases it.
// Another process may take the port before it is bound again.
func FreePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to allocate ephemeral port: %w", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// IsPortAvailable attempts a transient bind of host:port. A bind that does not
// complete within timeout counts as unavailable.
func IsPortAvailable(host string, port int, timeout time.Duration) bool {
	if port <= 0 || port > 65535 {
		return false
	}
	if host == "" {
		host = "127.0.0.1"
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	result := make(chan bool, 1)
	go func() {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			result <- false
			return
		}
		_ = ln.Close()
		result <- true
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ok := <-result:
		return ok
	case <-timer.C:
		return false
	}
}
