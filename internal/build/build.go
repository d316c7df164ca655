package build

import (
	"fmt"
	"runtime/debug"
)

// Overridden at link time with -ldflags "-X github.com/bornholm/taskmanager/internal/build.ShortVersion=..."
var (
	ShortVersion = "dev"
	ProjectURL   = "https://github.com/bornholm/taskmanager"
)

var LongVersion = longVersion()

func longVersion() string {
	revision := "unknown"
	modified := false

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}

	if modified {
		revision += "-dirty"
	}

	return fmt.Sprintf("%s (%s) - %s", ShortVersion, revision, ProjectURL)
}
