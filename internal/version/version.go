// Package version exposes build information set at link time.
package version

import "runtime/debug"

// Set with -ldflags "-X github.com/safedep/tally/internal/version.Version=..."
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version != "" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		Version = "(devel)"
		return
	}

	Version = info.Main.Version
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && Commit == "" {
			Commit = s.Value
		}
	}
}
