package cli

import "runtime/debug"

// Version is set by main from ldflags. Empty falls back to the module version, then "dev".
var Version string

func resolveVersion() string {
	if Version != "" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}
