package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information
var (
	// Version in string format - set dynamically at build time
	Version = "0.1.0"
	// GitCommit is the git commit that was compiled - set dynamically at build time
	GitCommit = ""
	// BuildDate is the date of the build - set dynamically at build time
	BuildDate = ""
	// GoVersion is the version of go used to compile
	GoVersion = runtime.Version()
	// Platform is the operating system and architecture combination
	Platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	// Name of the application
	AppName = "static-server"
	// Description of the application
	Description = "A minimal static file HTTP server"
)

// GetVersionInfo returns a formatted version string with additional build information
func GetVersionInfo() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s version %s", AppName, Version)
	if GitCommit != "" {
		fmt.Fprintf(&sb, "\nGit commit: %s", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "\nBuild date: %s", BuildDate)
	}
	fmt.Fprintf(&sb, "\nGo version: %s", GoVersion)
	fmt.Fprintf(&sb, "\nPlatform: %s", Platform)

	return sb.String()
}
