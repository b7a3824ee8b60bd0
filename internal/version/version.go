// Package version reports build metadata for the --version flag.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via ldflags, e.g.
//
//	-X github.com/example/portstats/internal/version.Version=v0.3.0
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns "portstats <version> (commit: <sha>, built: <time>, <go version>)".
// Commit and build time fall back to the VCS stamp embedded by the go tool,
// then to "unknown".
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime := vcsStamp()
		if commit == "" {
			commit = vcsCommit
		}
		if built == "" {
			built = vcsTime
		}
	}

	return fmt.Sprintf("portstats %s (commit: %s, built: %s, %s)",
		Version, shortCommit(commit), built, runtime.Version())
}

func vcsStamp() (commit, built string) {
	commit, built = "unknown", "unknown"

	info, ok := readBuildInfo()
	if !ok {
		return commit, built
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			built = s.Value
		}
	}
	return commit, built
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
