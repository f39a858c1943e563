// Package server runs the embedded HTTP server and picks its port.
//
// # Ports
//
// A PortRequest is either a fixed port or "dynamic". A dynamic request is
// satisfied by any port a running server is bound to, and by a fresh
// ephemeral port otherwise. IsPortAvailable is a best-effort probe: nothing
// reserves the port between the probe and the bind.
//
// # Embedded server
//
// Embedded serves a fiber app on one listener. Start returns once the base
// URI answers (any status counts) or the start timeout expires. Stop shuts
// the app down gracefully. An Embedded and its app are single use.
//
// # URIs
//
// The base URI is http://<host>:<port><context path>, e.g.
// http://127.0.0.1:8080/cmis/, and the CMIS endpoint is the base URI plus
// "browser".
package server
