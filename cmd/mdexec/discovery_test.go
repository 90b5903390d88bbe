package main

// Notes:
// - discoverFiles: we test single files, directory walks and extension checks
//   against real temp directories.
// - resolveOutputPath: we test default, directory and explicit .html outputs.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/alnah/go-mdexec"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "doc.md", "# Doc")

	files, err := discoverFiles(input, "")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if want := filepath.Join(dir, "doc.html"); files[0].OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
	}
}

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeFile(t, in, "a.md", "a")
	writeFile(t, in, "nested/b.markdown", "b")
	writeFile(t, in, "nested/c.txt", "c")

	files, err := discoverFiles(in, "/out")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}

	var outputs []string
	for _, f := range files {
		outputs = append(outputs, f.OutputPath)
	}
	sort.Strings(outputs)

	want := []string{filepath.Join("/out", "a.html"), filepath.Join("/out", "nested", "b.html")}
	if len(outputs) != len(want) {
		t.Fatalf("outputs = %v, want %v", outputs, want)
	}
	for i := range want {
		if outputs[i] != want[i] {
			t.Errorf("outputs[%d] = %q, want %q", i, outputs[i], want[i])
		}
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "x")

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing", filepath.Join(dir, "missing.md"), os.ErrNotExist},
		{"wrong extension", txt, ErrInvalidExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := discoverFiles(tt.input, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("discoverFiles() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output path rules
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		want      string
	}{
		{"next to input", "docs/a.md", "", "", filepath.Join("docs", "a.html")},
		{"output dir", "docs/a.md", "out", "", filepath.Join("out", "a.html")},
		{"explicit html", "docs/a.md", "out/report.html", "", "out/report.html"},
		{"explicit html ignored for dirs", "docs/a.md", "out/report.html", "docs", filepath.Join("out/report.html", "a.html")},
		{"keeps layout", "docs/sub/a.markdown", "out", "docs", filepath.Join("out", "sub", "a.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileToRender_PDFPath(t *testing.T) {
	t.Parallel()

	f := FileToRender{InputPath: "a.md", OutputPath: filepath.Join("out", "a.html")}
	if want := filepath.Join("out", "a.pdf"); f.PDFPath() != want {
		t.Errorf("PDFPath() = %q, want %q", f.PDFPath(), want)
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{mdexec.MaxPoolSize, false},
		{mdexec.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want %v", tt.n, err, ErrInvalidWorkerCount)
		}
	}
}
