// Package archive opens the pre-built web archive (a zip or war file) that the
// embedded server exposes as static content under its context path.
//
// The archive is read from a local path or downloaded from an S3/MinIO bucket
// through core/storage. WEB-INF and META-INF are never exposed.
package archive
