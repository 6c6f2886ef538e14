package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirectoryExists(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		setup       func(t *testing.T) string
		expectError bool
	}{
		{
			name:  "current directory",
			setup: func(*testing.T) string { return "test.txt" },
		},
		{
			name: "nested absolute path",
			setup: func(*testing.T) string {
				return filepath.Join(tempDir, "level1", "level2", "cache.db")
			},
		},
		{
			name: "directory already exists",
			setup: func(*testing.T) string {
				existing := filepath.Join(tempDir, "existing")
				if err := os.MkdirAll(existing, 0o755); err != nil {
					t.Fatal(err)
				}
				return filepath.Join(existing, "token.yaml")
			},
		},
		{
			name: "parent is a file",
			setup: func(t *testing.T) string {
				file := filepath.Join(tempDir, "plainfile")
				if err := os.WriteFile(file, nil, 0o600); err != nil {
					t.Fatal(err)
				}
				return filepath.Join(file, "child", "x.db")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)

			err := EnsureDirectoryExists(path)
			if (err != nil) != tt.expectError {
				t.Fatalf("EnsureDirectoryExists(%q) error = %v, expectError = %v", path, err, tt.expectError)
			}

			if !tt.expectError {
				if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
					t.Errorf("directory for %q was not created", path)
				}
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{in: "~/.babble/token.yaml", want: filepath.Join(home, ".babble", "token.yaml")},
		{in: "~", want: home},
		{in: "/etc/babble.yaml", want: "/etc/babble.yaml"},
		{in: "relative/config.yaml", want: "relative/config.yaml"},
		{in: "~other/file", want: "~other/file"},
	}

	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := GetDefaultPath("cache.db")
	if err != nil {
		t.Fatalf("GetDefaultPath() error = %v", err)
	}
	if want := filepath.Join(home, AppDirName, "cache.db"); got != want {
		t.Errorf("GetDefaultPath() = %q, want %q", got, want)
	}
}
