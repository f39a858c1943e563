// Package middleware contains HTTP middleware for the embedded server.
//
// # Components
//
//   - Auth: optional basic auth in front of the hosted application, for suites
//     that exercise authenticated sessions.
//   - RayID: assigns a request id (RayID) to every request, reusing one sent by
//     the client, and echoes it in the X-Ray-ID response header.
//
// The harness registers RayID on the whole app and Auth on the context path
// group, so /metrics stays open.
package middleware
