package archive

// Config locates the web archive served under the context path.
type Config struct {
	// Path is a local zip/war file.
	Path string `mapstructure:"path" default:""`
	// Object is an object key in the storage bucket; it takes precedence over Path.
	Object string `mapstructure:"object" default:""`
}

// Enabled reports whether an archive is configured at all.
func (c Config) Enabled() bool {
	return c.Path != "" || c.Object != ""
}
