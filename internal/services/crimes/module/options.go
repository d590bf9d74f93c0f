package module

import "crimecast/internal/platform/config"

// Source names the backend crimes are read from
const (
	SourceAuto   = "auto"
	SourcePG     = "pg"
	SourceSQLite = "sqlite"
)

// Options for the crimes module
type Options struct {
	// Source picks the backend; auto prefers Postgres when it is enabled
	Source string
	// EnsureSchema creates the crimes table on startup
	EnsureSchema bool
}

// FromConfig reads CORE_CRIMES_*
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_CRIMES_")
	return Options{
		Source:       c.MayEnum("SOURCE", SourceAuto, SourceAuto, SourcePG, SourceSQLite),
		EnsureSchema: c.MayBool("ENSURE_SCHEMA", false),
	}
}
