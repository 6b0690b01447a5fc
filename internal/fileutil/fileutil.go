// Package fileutil provides file and path helpers shared by the renderer,
// the printer and the CLI.
package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile stores content in a fresh idiompage-*.{extension} file under
// the system temp directory. cleanup removes it and may be called more than
// once.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "idiompage-*."+extension)
	if err != nil {
		return "", nil, errors.Join(errors.New("creating temp file"), err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, werr := f.WriteString(content)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		cleanup()
		return "", nil, errors.Join(errors.New("writing temp file"), werr)
	}
	return path, cleanup, nil
}

// ValidateExtension accepts a bare extension such as "html".
func ValidateExtension(extension string) error {
	switch {
	case extension == "":
		return ErrExtensionEmpty
	case strings.ContainsAny(extension, "/\\\x00"):
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path names something other than a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}

// ReplaceExt swaps the extension of path for ext (with leading dot).
//
//	ReplaceExt("pages/19.html", ".json") -> "pages/19.json"
//	ReplaceExt("README", ".pdf")         -> "README.pdf"
func ReplaceExt(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}
