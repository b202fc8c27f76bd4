package application

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const valueNotProvided = "[not provided]"

// set via ldflags at release time
var version = valueNotProvided
var gitCommit = valueNotProvided
var gitDescription = valueNotProvided
var buildDate = valueNotProvided
var platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)

type BuildInfo struct {
	Version        string `json:"version"`        // application semantic version
	GitCommit      string `json:"gitCommit"`      // git SHA at build-time
	GitDescription string `json:"gitDescription"` // "clean" or "dirty" at build-time
	BuildDate      string `json:"buildDate"`
	GoVersion      string `json:"goVersion"`
	Compiler       string `json:"compiler"`
	Platform       string `json:"platform"` // GOOS and GOARCH at build-time
}

// ReadBuildInfo fills in anything ldflags left unset from the module's
// embedded VCS settings.
func ReadBuildInfo() BuildInfo {
	var buildRevision string
	var vcsModified, foundVcsModified bool
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				buildRevision = s.Value
			case "vcs.modified":
				vcsModified = s.Value == "true"
				foundVcsModified = true
			}
		}
	}

	info := BuildInfo{
		Version:        version,
		GitCommit:      gitCommit,
		GitDescription: gitDescription,
		BuildDate:      buildDate,
		GoVersion:      runtime.Version(),
		Compiler:       runtime.Compiler,
		Platform:       platform,
	}

	if info.Version == valueNotProvided {
		if buildRevision != "" {
			info.Version = fmt.Sprintf("%s-adhoc-build", buildRevision)
		} else {
			info.Version = fmt.Sprintf("%s (adhoc-build)", valueNotProvided)
		}
	}
	if info.GitCommit == valueNotProvided && buildRevision != "" {
		info.GitCommit = buildRevision
	}
	if info.GitDescription == valueNotProvided && foundVcsModified {
		if vcsModified {
			info.GitDescription = "dirty"
		} else {
			info.GitDescription = "clean"
		}
	}
	return info
}
