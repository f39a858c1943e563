// Package webapp serves the web archive and the context root.
//
// GET on the context root returns the archive's index.html when one exists,
// otherwise a JSON landing document:
//
//	{"status":"running","repositories":["A1"],"cmisVersion":"1.1"}
//
// Every other archive file is served as static content. WEB-INF and META-INF
// are hidden by the archive package.
package webapp
