// Package version reports what build of wfngen is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the release version, overridden at build time via ldflags.
// Development builds fall back to VCS metadata when available.
var Version = "dev"

// Info describes one build of the binary.
type Info struct {
	Version   string
	Commit    string
	Dirty     bool
	GoVersion string
	Platform  string
}

// Get assembles the build description. The commit hash comes from the
// VCS stamp the Go toolchain embeds, so plain 'go build' binaries still
// identify themselves.
func Get() Info {
	info := Info{
		Version:   Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	return info
}

// Full returns the detailed build description.
func (i Info) Full() string {
	commit := i.Commit
	if commit == "" {
		commit = "unknown"
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if i.Dirty {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s (%s) %s %s", i.Version, commit, i.GoVersion, i.Platform)
}

func (i Info) String() string { return i.Version }
