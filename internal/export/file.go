package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iksnae/emotion-session/internal"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// FileName returns session_<id>.<ext>, with .zst appended when compressed
func FileName(sessionID, ext string, compressed bool) string {
	name := fmt.Sprintf("session_%s.%s", unsafeFileChars.ReplaceAllString(sessionID, "_"), ext)
	if compressed {
		name += "." + CompressedExtension
	}
	return name
}

// WriteFile exports session into dir and returns the written path
func WriteFile(exp Exporter, session *SessionExport, dir string, compressed bool) (string, error) {
	path := filepath.Join(dir, FileName(session.SessionID, exp.Extension(), compressed))
	fail := func(err error) (string, error) {
		return "", &internal.ExportError{Format: exp.Extension(), Path: path, Err: err}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(fmt.Errorf("failed to create output directory: %w", err))
	}
	f, err := os.Create(path)
	if err != nil {
		return fail(fmt.Errorf("failed to create file: %w", err))
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	var w io.Writer = buf
	var zw io.WriteCloser
	if compressed {
		if zw, err = Compress(buf); err != nil {
			return fail(err)
		}
		w = zw
	}

	if err := exp.Export(session, w); err != nil {
		return fail(err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fail(err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	return path, nil
}
