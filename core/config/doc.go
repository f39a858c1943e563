// Package config provides configuration management for the harness.
//
// It utilizes Viper for loading configuration from an optional config.yaml,
// environment variables and a .env file (via godotenv). Defaults come from the
// `default` struct tags of every partial configuration.
//
// # Configuration Structure
//
//   - Server: bind host, port ("dynamic" or a number), context path, timeouts, CMIS version, basic auth
//   - Types: comma separated list of type definition files
//   - Repository: repository ids and the default repository
//   - Database: type store driver (memory, sqlite, mysql) and connection details
//   - Storage: S3/MinIO credentials used to fetch a remote web archive
//   - Archive: local path or object key of the web archive
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
