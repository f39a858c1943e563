package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cmis-harness/core/archive"
	"cmis-harness/core/database"
	"cmis-harness/core/logger"
	"cmis-harness/core/server"
	"cmis-harness/core/storage"
	"cmis-harness/core/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the harness.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the embedded HTTP server.
	Server server.Config `mapstructure:"server"`
	// Types lists the custom type definition sources.
	Types TypesConfig `mapstructure:"types"`
	// Repository configures the hosted repository application.
	Repository RepositoryConfig `mapstructure:"repository"`
	// Database holds configuration for the optional SQL type store.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage the web archive may be fetched from.
	Storage storage.Config `mapstructure:"storage"`
	// Archive locates the web archive served under the context path.
	Archive archive.Config `mapstructure:"archive"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// TypesConfig lists type definition files.
type TypesConfig struct {
	// Files is a comma separated list of YAML or JSON type definition files.
	Files string `mapstructure:"files" default:""`
}

// Paths returns the configured type definition files.
func (c TypesConfig) Paths() []string {
	return utils.SplitList(c.Files)
}

// RepositoryConfig configures the repositories exposed by the hosted application.
type RepositoryConfig struct {
	// IDs is a comma separated list of repository identifiers.
	IDs string `mapstructure:"ids" default:"A1"`
	// Default is the repository used when a session is opened without an id.
	Default string `mapstructure:"default" default:"A1"`
}

// List returns the configured repository identifiers.
func (c RepositoryConfig) List() []string {
	return utils.SplitList(c.IDs)
}

// Validate checks cross-field constraints viper cannot express.
func (c *Config) Validate() error {
	if _, err := server.ParsePortRequest(c.Server.Port); err != nil {
		return fmt.Errorf("server.port: %w", err)
	}
	if !c.Server.IsValidCMISVersion() {
		return fmt.Errorf("server.cmis_version: unsupported version %q", c.Server.CMISVersion)
	}
	ids := c.Repository.List()
	if len(ids) == 0 {
		return errors.New("repository.ids: at least one repository is required")
	}
	found := false
	for _, id := range ids {
		if id == c.Repository.Default {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("repository.default: %q is not one of %v", c.Repository.Default, ids)
	}
	if !c.Database.IsValidDriver() {
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	return nil
}

// LoadConfig loads configuration from an optional config.yaml in path,
// environment variables and a .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. CI)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the configuration built from the struct tag defaults only.
func Default() Config {
	v := viper.New()
	bindValues(v, Config{}, "")
	var config Config
	_ = v.Unmarshal(&config)
	return config
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
