// Package version reports build information stamped with -ldflags
package version

// BuildInfo describes the running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set with -ldflags "-X 'crimecast/internal/core/version.version=v0.1.0' -X ...commit=abcd"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	return BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
}

// Tag is the short form used in client info strings
func Tag() string {
	if commit == "none" {
		return version
	}
	return version + "+" + commit
}
