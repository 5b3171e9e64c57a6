// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ExecutableSuffix returns the file suffix executables carry on goos.
func ExecutableSuffix(goos string) string {
	if goos == Windows {
		return ".exe"
	}
	return ""
}

// ExecutableName returns the artifact file name for stem on the host OS.
func ExecutableName(stem string) string {
	return stem + ExecutableSuffix(runtime.GOOS)
}
