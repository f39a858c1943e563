// Package session is a small browser binding client for the hosted
// repository.
//
// Open reads the repository list from the endpoint and binds to one
// repository (A1 unless told otherwise). A Session only keeps the endpoint,
// the credentials and the repository info; every call is a fresh HTTP
// request, so sessions are cheap and need no closing.
package session
