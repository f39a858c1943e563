package database

// Config holds configuration for the optional SQL type store.
type Config struct {
	// Driver selects the type store: memory (no database), sqlite or mysql.
	Driver string `mapstructure:"driver" default:"memory"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"cmis"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverMemory, DriverSQLite, DriverMySQL:
		return true
	default:
		return false
	}
}

// UsesDatabase reports whether a SQL connection is needed.
func (c Config) UsesDatabase() bool {
	return c.Driver == DriverSQLite || c.Driver == DriverMySQL
}
