// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"fmt"

	"github.com/jar2native/jar2native/internal/shell"
	"github.com/jar2native/jar2native/pkg/types"
)

// LauncherName is the file name of the generated launcher script.
const LauncherName = "launcher.sh"

// launcherTemplate is filled with fmt.Sprintf: runtime image directory name,
// archive name (both pre-quoted shell words) and the missing-file exit code.
//
// Paths resolve against the launcher's own directory, whatever the caller's
// working directory or environment.
const launcherTemplate = `#!/bin/sh
# Generated by jar2native.
set -e
case "$0" in
*/*) self="${0%%/*}" ;;
*) self=. ;;
esac
base=$(CDPATH= cd "$self" && pwd)
runtime="$base"/%[1]s
app="$base"/%[2]s
if [ ! -d "$runtime" ]; then
	echo "jar2native: runtime image not found: $runtime" >&2
	exit %[3]d
fi
if [ ! -f "$app" ]; then
	echo "jar2native: application archive not found: $app" >&2
	exit %[3]d
fi
java="$runtime/bin/java"
if [ ! -f "$java" ] && [ -f "$runtime/bin/java.exe" ]; then
	java="$runtime/bin/java.exe"
fi
if [ ! -f "$java" ]; then
	echo "jar2native: java executable not found: $java" >&2
	exit %[3]d
fi
exec "$java" -jar "$app" "$@"
`

// RenderLauncher returns the launcher script for a staged package holding the
// runtime image directory imageDirName and the archive archiveName. It has no
// side effects.
func RenderLauncher(imageDirName, archiveName string) (string, error) {
	if imageDirName == "" || archiveName == "" {
		return "", fmt.Errorf("launcher needs an image directory and an archive name")
	}

	qImage, err := shell.Quote(imageDirName)
	if err != nil {
		return "", err
	}
	qArchive, err := shell.Quote(archiveName)
	if err != nil {
		return "", err
	}
	return shell.Format(LauncherName, fmt.Sprintf(launcherTemplate, qImage, qArchive, types.ExitNotFound))
}
