package config

// Config represents the full application configuration.
type Config struct {
	Git           GitConfig           `yaml:"git"`
	Report        ReportConfig        `yaml:"report"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitConfig locates the repository and names the default comparison base.
type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
	BaseRef       string `yaml:"baseRef"`
}

// ReportConfig holds default report output settings, overridable per run
// from the command line.
type ReportConfig struct {
	HTMLPath  string `yaml:"htmlPath"`
	FailUnder int    `yaml:"failUnder"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig groups logging settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the structured run logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}
