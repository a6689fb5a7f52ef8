// internal/version/version.go
package version

import "runtime/debug"

// Set at build time:
//
//	go build -ldflags="-X github.com/tamzrod/fixture-panel/internal/version.Version=v1.0.0 \
//	                   -X github.com/tamzrod/fixture-panel/internal/version.Commit=abc123"
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && Commit == "" {
			Commit = s.Value
			if len(Commit) > 12 {
				Commit = Commit[:12]
			}
		}
	}
}

// String is "version (commit)".
func String() string {
	return Version + " (" + Commit + ")"
}
