// Package consts houses some constants needed across fairq
package consts

import (
	"fmt"
	"runtime"
	"strings"
)

// Version contains the current semantic version of fairq.
const Version = "0.1.0"

// VersionDetails can be set externally as part of the build process
var VersionDetails = ""

// FullVersion returns the maximally full version and build information for
// the currently running fairq executable.
func FullVersion() string {
	goVersionArch := fmt.Sprintf("%s, %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if VersionDetails != "" {
		return fmt.Sprintf("%s (%s, %s)", Version, VersionDetails, goVersionArch)
	}

	return fmt.Sprintf("%s (%s)", Version, goVersionArch)
}

// Banner returns the ASCII-art banner with the fairq logo
func Banner() string {
	banner := strings.Join([]string{
		`  __      _`,
		` / _|__ _(_)_ _ __ _`,
		`|  _/ _' | | '_/ _' |`,
		`|_| \__,_|_|_| \__, |`,
		`                  |_|`,
	}, "\n")

	return banner
}
