//go:build duckdb

package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"sqlrunner/db"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe error: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	return string(out)
}

func TestShellFilesCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	for _, name := range []string{"b.sql", "a.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatalf("WriteFile error: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "c.sql"), []byte("SELECT 2;"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	runner, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory error: %v", err)
	}
	defer runner.Close()

	sh := &Shell{runner: runner}
	cmd := &cobra.Command{}

	out := captureStdout(t, func() {
		if !sh.handleCommand(cmd, ".files") {
			t.Error("Expected .files to be handled")
		}
	})
	for _, want := range []string{"a.sql", "b.sql", filepath.Join("sub", "c.sql")} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("Expected only .sql files, got:\n%s", out)
	}
	if strings.Index(out, "a.sql") > strings.Index(out, "b.sql") {
		t.Errorf("Expected sorted listing, got:\n%s", out)
	}

	out = captureStdout(t, func() {
		sh.handleCommand(cmd, ".files sub")
	})
	if !strings.Contains(out, "c.sql") || strings.Contains(out, "a.sql") {
		t.Errorf("Expected only files under sub, got:\n%s", out)
	}
}
