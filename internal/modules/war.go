// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jar2native/jar2native/internal/archive"
)

const (
	// WARClassesDir is the compiled-classes directory of a web archive.
	WARClassesDir = "WEB-INF/classes"
	// WARLibDir holds the library JARs of a web archive.
	WARLibDir = "WEB-INF/lib"
)

// WARTargets extracts the web archive at warPath into scratchDir and returns
// the analysis targets: the classes directory (if present) followed by every
// .jar file directly inside the lib directory (if present), in name order.
// Both parts are optional, so the result may be empty.
func WARTargets(warPath, scratchDir string) ([]string, error) {
	if err := archive.Extract(warPath, scratchDir); err != nil {
		return nil, fmt.Errorf("extract web archive: %w", err)
	}

	var targets []string

	classesDir := filepath.Join(scratchDir, filepath.FromSlash(WARClassesDir))
	if info, err := os.Stat(classesDir); err == nil && info.IsDir() {
		targets = append(targets, classesDir)
	}

	libDir := filepath.Join(scratchDir, filepath.FromSlash(WARLibDir))
	entries, err := os.ReadDir(libDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", WARLibDir, err)
	}
	// os.ReadDir returns entries sorted by filename
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jar") {
			continue
		}
		targets = append(targets, filepath.Join(libDir, e.Name()))
	}

	return targets, nil
}
