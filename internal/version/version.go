package version

import (
	"runtime"
	"runtime/debug"
	"time"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info is the build identity reported by the version command and /healthz.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		version, commit, date = fromBuildInfo(info, version, commit, date)
	}
}

func fromBuildInfo(info *debug.BuildInfo, v, c, d string) (string, string, string) {
	if info.Main.Version != "(devel)" && info.Main.Version != "" {
		v = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) > 7 {
				c = setting.Value[:7]
			} else if setting.Value != "" {
				c = setting.Value
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				d = t.Format("02/01/2006")
			}
		}
	}

	return v, c, d
}

func Version() string {
	return version
}

func Commit() string {
	return commit
}

func Date() string {
	return date
}

func Get() Info {
	return Info{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
}
