// Package version provides overlayd build information.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version (injected at build time via -ldflags)
	version = "dev"
	// Commit is the git commit hash (injected at build time via -ldflags)
	commit = "none"
	// Date is the build date (injected at build time via -ldflags)
	date = "unknown"
	// Preview reports whether the ebiten preview was compiled in. Builds
	// with the nopreview tag leave it false.
	preview = false
)

// GetVersion returns the full version string
func GetVersion() string {
	return version
}

// GetCommit returns the git commit hash.
func GetCommit() string {
	return commit
}

// GetDate returns the build date.
func GetDate() string {
	return date
}

// GetPlatform returns the OS/architecture the binary was built for.
func GetPlatform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// HasPreview reports whether the preview command is available.
func HasPreview() bool {
	return preview
}

// SetPreview records that the preview backend is compiled in. The preview
// command calls it from init.
func SetPreview() {
	preview = true
}

// GetFullVersion returns version with commit, date and platform info
func GetFullVersion() string {
	backends := "headless"
	if preview {
		backends += "+preview"
	}

	return fmt.Sprintf("%s (commit: %s, built: %s, %s, %s)", version, commit, date, GetPlatform(), backends)
}
