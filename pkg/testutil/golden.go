// Package testutil provides golden file and fixture helpers for tests.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// CompareGolden compares the actual output with the golden file content.
// If the -update flag is provided, it updates the golden file with the actual output.
func CompareGolden(t *testing.T, goldenPath string, actual string) {
	t.Helper()

	if *update {
		writeFile(t, goldenPath, actual)
		return
	}

	expected := ReadFixture(t, goldenPath)
	if actual != expected {
		t.Errorf("Golden file mismatch for %s\nExpected:\n%s\nActual:\n%s", goldenPath, expected, actual)
	}
}

// CompareGoldenLines compares rendered posts, one entry per sink write, against a
// golden file where entries are separated by a line holding only "%%".
func CompareGoldenLines(t *testing.T, goldenPath string, actual []string) {
	t.Helper()
	CompareGolden(t, goldenPath, strings.Join(actual, "%%\n"))
}

// ReadFixture returns the content of a file under testdata, failing the test if it is missing.
func ReadFixture(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", path, err)
	}
	return string(content)
}

func writeFile(t *testing.T, goldenPath string, actual string) {
	t.Helper()

	dir := filepath.Dir(goldenPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(goldenPath, []byte(actual), 0o644); err != nil {
		t.Fatalf("Failed to update golden file %s: %v", goldenPath, err)
	}
	t.Logf("Updated golden file: %s", goldenPath)
}
