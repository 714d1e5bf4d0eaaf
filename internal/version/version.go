package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Build-time variables injected via -ldflags:
//
//	-X github.com/tbckr/namescout/internal/version.Version=1.0.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const shortRevision = 7

// Info describes a build.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func (i Info) String() string {
	return fmt.Sprintf("namescout version %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// Get returns the current build info.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	info := fillFromBuildInfo(Get(), bi)
	Version, Commit, Date = info.Version, info.Commit, info.Date
}

// fillFromBuildInfo replaces placeholder fields of info with data from bi.
// Fields already set through ldflags are kept.
func fillFromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if v := bi.Main.Version; info.Version == "dev" && v != "" && v != "(devel)" {
		info.Version = strings.TrimPrefix(v, "v")
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none" && s.Value != "":
			info.Commit = s.Value[:min(len(s.Value), shortRevision)]
		case s.Key == "vcs.time" && info.Date == "unknown" && s.Value != "":
			info.Date = s.Value
		}
	}
	return info
}
