// Package buildconfig exposes version metadata stamped at link time:
//
//	go build -ldflags "-X .../internal/buildconfig.version=v1.2.0 -X .../internal/buildconfig.commit=$(git rev-parse --short HEAD)"
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the stamped release version, "dev" for local builds.
func Version() string {
	return version
}

// Commit returns the stamped git revision.
func Commit() string {
	return commit
}

// VersionInfo bundles the stamped fields for startup logs and health output.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}
