// Package version holds the release version of the server binary.
package version

import "fmt"

// Version is the service current released version.
var Version = "0.1.0"

// DevVersion is the service current development version.
var DevVersion = "0.1.0"

func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}

func GetVersionWithMode(mode string) string {
	return fmt.Sprintf("%s-%s", GetCurrentVersion(mode), mode)
}
