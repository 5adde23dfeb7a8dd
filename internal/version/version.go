package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/MrSnakeDoc/tuck/internal/version.Version=v0.1.0".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// String is the one-line form printed by "tuck version".
func String() string {
	return fmt.Sprintf("tuck %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
