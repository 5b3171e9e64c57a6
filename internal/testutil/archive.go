// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// WriteZip writes a zip archive at path holding entries (name → content).
// Names ending in "/" become directory entries. Entries are written in
// name order so fixtures are reproducible.
func WriteZip(t testing.TB, path string, entries map[string]string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s to %s: %v", name, path, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("failed to write %s to %s: %v", name, path, err)
		}
	}
	MustClose(t, zw)
	MustClose(t, f)
}

// WriteJar writes a jar at path whose manifest declares mainClass (omitted
// when empty), plus any extra entries.
func WriteJar(t testing.TB, path, mainClass string, extra map[string]string) {
	t.Helper()
	manifest := "Manifest-Version: 1.0\r\nCreated-By: testutil\r\n"
	if mainClass != "" {
		manifest += "Main-Class: " + mainClass + "\r\n"
	}
	entries := map[string]string{
		"META-INF/MANIFEST.MF": manifest + "\r\n",
	}
	for k, v := range extra {
		entries[k] = v
	}
	WriteZip(t, path, entries)
}
