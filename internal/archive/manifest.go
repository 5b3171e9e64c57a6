// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// ManifestPath is the location of the manifest inside a JAR.
	ManifestPath = "META-INF/MANIFEST.MF"
	// MainClassAttribute is the manifest key naming the entry-point class.
	MainClassAttribute = "Main-Class"

	// maxManifestSize bounds how much of the manifest entry is read.
	maxManifestSize = 1 << 20
)

// ErrNoManifest is returned when the archive has no manifest entry.
var ErrNoManifest = errors.New("no manifest entry")

// Manifest holds the main-section attributes of a JAR manifest.
type Manifest struct {
	attrs map[string]string
}

// ReadManifest extracts only the manifest entry from the archive at path
// and parses its main section.
func ReadManifest(path string) (Manifest, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != ManifestPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Manifest{}, fmt.Errorf("open %s in %s: %w", ManifestPath, path, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
		if err != nil {
			return Manifest{}, fmt.Errorf("read %s in %s: %w", ManifestPath, path, err)
		}
		return ParseManifest(data), nil
	}

	return Manifest{}, fmt.Errorf("%w in %s", ErrNoManifest, path)
}

// ParseManifest parses the main section of manifest text. Continuation
// lines (starting with a single space) are joined to the preceding value.
// Parsing stops at the first blank line, which ends the main section.
func ParseManifest(data []byte) Manifest {
	m := Manifest{attrs: make(map[string]string)}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	var lastKey string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), maxManifestSize)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if lastKey != "" {
				m.attrs[lastKey] += line[1:]
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			lastKey = ""
			continue
		}
		lastKey = strings.TrimSpace(key)
		m.attrs[lastKey] = strings.TrimPrefix(value, " ")
	}
	return m
}

// Get returns the value of the attribute with exactly the given key.
func (m Manifest) Get(key string) (string, bool) {
	v, ok := m.attrs[key]
	return v, ok
}

// MainClass returns the trimmed Main-Class attribute, or "" if absent.
func (m Manifest) MainClass() string {
	v, _ := m.Get(MainClassAttribute)
	return strings.TrimSpace(v)
}
