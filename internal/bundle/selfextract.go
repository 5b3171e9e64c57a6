// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jar2native/jar2native/internal/shell"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
)

const (
	// CacheEnv overrides the directory artifacts extract into.
	CacheEnv = "JAR2NATIVE_CACHE"
	// HomeEnv is set by the stub to the extraction directory before the
	// entry point runs.
	HomeEnv = "JAR2NATIVE_HOME"

	hashPrefixLen = 16
	stubName      = "stub.sh"
)

// stubTemplate is filled with fmt.Sprintf: cache key directory, payload line
// offset, entry point. The payload starts on the line after the stub.
const stubTemplate = `#!/bin/sh
# jar2native self-extracting executable
set -e
cache="${JAR2NATIVE_CACHE:-${XDG_CACHE_HOME:-$HOME/.cache}/jar2native}"
dir="$cache"/%s
if [ ! -f "$dir/.complete" ]; then
	mkdir -p "$cache"
	tmp=$(mktemp -d "$cache/.extract.XXXXXX")
	tail -n +%d "$0" | gzip -dc | tar -xmf - -C "$tmp"
	: >"$tmp/.complete"
	if [ -d "$dir" ]; then
		rm -rf "$tmp"
	else
		mv "$tmp" "$dir"
	fi
fi
JAR2NATIVE_HOME="$dir"
export JAR2NATIVE_HOME
exec "$dir"/%s "$@"
exit 127
`

// SelfExtracting writes a POSIX sh stub followed by a gzip-compressed tar of
// the entry point and payloads. On first run the stub extracts the payload
// into a cache directory keyed by its content hash and execs the entry point.
type SelfExtracting struct {
	outputDir string
	logger    *log.Logger
}

// NewSelfExtracting creates a bundler writing artifacts into outputDir.
func NewSelfExtracting(outputDir string, logger *log.Logger) *SelfExtracting {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SelfExtracting{outputDir: outputDir, logger: logger}
}

// Bundle implements Bundler.
func (s *SelfExtracting) Bundle(ctx context.Context, req Request) (string, error) {
	output := filepath.Join(s.outputDir, req.OutputName)
	if err := req.Validate(); err != nil {
		return "", &Error{Output: output, Err: err}
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", &Error{Output: output, Err: err}
	}

	payload, err := os.CreateTemp(s.outputDir, ".jar2native-payload-*")
	if err != nil {
		return "", &Error{Output: output, Err: err}
	}
	defer func() {
		_ = payload.Close()
		_ = os.Remove(payload.Name())
	}()

	h := sha256.New()
	if err := writePayload(ctx, io.MultiWriter(payload, h), req); err != nil {
		return "", &Error{Output: output, Err: err}
	}
	sum := hex.EncodeToString(h.Sum(nil))

	stub, err := RenderStub(bundleKey(req.OutputName, sum), filepath.Base(req.Entry))
	if err != nil {
		return "", &Error{Output: output, Err: err}
	}

	if _, err := payload.Seek(0, io.SeekStart); err != nil {
		return "", &Error{Output: output, Err: err}
	}
	if err := writeArtifact(output, stub, payload); err != nil {
		return "", &Error{Output: output, Err: err}
	}

	s.logger.Debug("Artifact written", "path", output, "sha256", sum[:hashPrefixLen])
	return output, nil
}

// RenderStub returns the extraction stub for an artifact whose cache
// directory is named key and whose entry point is entryName.
func RenderStub(key, entryName string) (string, error) {
	qKey, err := shell.Quote(key)
	if err != nil {
		return "", err
	}
	qEntry, err := shell.Quote(entryName)
	if err != nil {
		return "", err
	}

	// The offset digits never change the line count, so one pass with a
	// placeholder is enough to find where the payload starts.
	draft, err := shell.Format(stubName, fmt.Sprintf(stubTemplate, qKey, 0, qEntry))
	if err != nil {
		return "", err
	}
	offset := strings.Count(draft, "\n") + 1
	return shell.Format(stubName, fmt.Sprintf(stubTemplate, qKey, offset, qEntry))
}

// bundleKey names the extraction directory: the artifact stem plus a content
// hash prefix, so a rebuilt artifact never reuses a stale extraction.
func bundleKey(outputName, sum string) string {
	stem := strings.TrimSuffix(outputName, filepath.Ext(outputName))
	return stem + "-" + sum[:hashPrefixLen]
}

func writeArtifact(output, stub string, payload io.Reader) (err error) {
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.WriteString(f, stub); err != nil {
		return err
	}
	if _, err = io.Copy(f, payload); err != nil {
		return err
	}
	// OpenFile only applies the mode on creation.
	return f.Chmod(0o755)
}

func writePayload(ctx context.Context, w io.Writer, req Request) error {
	gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(gz)

	if err := addFile(tw, req.Entry, filepath.Base(req.Entry)); err != nil {
		return err
	}
	for _, p := range req.Payloads {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addTree(tw, p.Source, p.Name); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// addTree adds src to tw under name, recursing into directories. Symlinks
// are stored as links.
func addTree(tw *tar.Writer, src, name string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		return addFile(tw, p, path.Join(name, filepath.ToSlash(rel)))
	})
}

func addFile(tw *tar.Writer, src, name string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(src); err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	hdr.Name = path.Clean(name)
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
