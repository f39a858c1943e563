// Package database opens the optional SQL database backing the hosted
// repository's type store.
//
// It wraps GORM with the MySQL and SQLite dialects. The default "memory" driver
// keeps types in process and needs no database at all; sqlite (including
// ":memory:") and mysql persist type definitions so that they can be inspected
// after a test run.
//
// # Usage
//
//	if cfg.Database.UsesDatabase() {
//	    db, err := database.Connect(cfg.Database)
//	    ...
//	}
package database
