// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty is "true" when the tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version, set for releases.
	Version = "0.1.0-dev"
)

// buildStamp holds the values reported by Info, with the embedded VCS
// settings filling anything ldflags left unset.
type buildStamp struct {
	commit string
	dirty  bool
	time   string
}

var loadStamp = sync.OnceValue(func() buildStamp {
	info, _ := debug.ReadBuildInfo()
	return resolveStamp(info)
})

func resolveStamp(info *debug.BuildInfo) buildStamp {
	stamp := buildStamp{
		commit: GitCommit,
		dirty:  GitDirty == "true",
		time:   BuildTime,
	}
	if info == nil {
		return stamp
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if stamp.commit == "unknown" && setting.Value != "" {
				stamp.commit = setting.Value
				if len(stamp.commit) > 12 {
					stamp.commit = stamp.commit[:12]
				}
			}
		case "vcs.modified":
			if GitDirty != "true" && setting.Value == "true" {
				stamp.dirty = true
			}
		case "vcs.time":
			if stamp.time == "unknown" && setting.Value != "" {
				stamp.time = setting.Value
			}
		}
	}
	return stamp
}

// Info returns a one-line version string suitable for --version output.
func Info() string {
	return formatInfo(loadStamp())
}

func formatInfo(stamp buildStamp) string {
	dirty := ""
	if stamp.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, stamp.commit, dirty, stamp.time)
}

// Full returns Info plus the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA, or "unknown".
func Commit() string {
	return loadStamp().commit
}
