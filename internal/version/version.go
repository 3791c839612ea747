package version

import (
	"runtime/debug"
	"strings"
)

// String reports the module version, or "(devel)" annotated with the VCS
// revision for local and pseudo-versioned builds.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	version := info.Main.Version
	if version != "" && version != "(devel)" && !strings.Contains(version, "+dirty") && !isPseudoVersion(version) {
		return version
	}

	var revision string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		return "(devel)"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified {
		revision += "-dirty"
	}
	return "(devel " + revision + ")"
}

func isPseudoVersion(version string) bool {
	version, _, _ = strings.Cut(version, "+")

	parts := strings.Split(version, "-")
	if len(parts) < 3 {
		return false
	}

	ts := parts[len(parts)-2]
	hash := parts[len(parts)-1]
	if len(ts) != 14 || strings.Trim(ts, "0123456789") != "" {
		return false
	}
	if len(hash) < 12 || strings.Trim(hash, "0123456789abcdefABCDEF") != "" {
		return false
	}
	return true
}
