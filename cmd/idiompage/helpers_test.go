package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Shared fixtures
// ---------------------------------------------------------------------------

const (
	fixturePage  = "../../testdata/idiom19.html"
	fixtureIdiom = "../../testdata/idiom19.json"
)

// testEnv returns an environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{Stdout: stdout, Stderr: stderr}, stdout, stderr
}

// readFixture returns the content of a testdata file.
func readFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	return data
}

// writeFile writes content under dir, creating parent directories.
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// writeConfig writes a YAML config and returns its path. Tests pass it with
// -c so the user's own config never leaks in.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return writeFile(t, dir, "test-config.yaml", []byte(content))
}
