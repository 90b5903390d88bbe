package main

// Notes:
// - Test infrastructure shared by the command tests: an isolated Environment
//   (buffers, fake env vars, scripted interpreter, fake PDF pool) and small
//   filesystem helpers.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdexec"
)

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

// testEnv is an Environment with captured output and fake capabilities.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
	pools  []*fakePool

	// exportErr and noExporter configure the pools created by render.
	exportErr  error
	noExporter bool
}

// newTestEnv returns an environment whose settings live in a temp dir and
// whose interpreter echoes the lines after the marker.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars: map[string]string{
			envSettings: filepath.Join(t.TempDir(), "settings.yaml"),
		},
	}
	te.Environment = &Environment{
		Now:     time.Now,
		Stdout:  te.stdout,
		Stderr:  te.stderr,
		Getenv:  func(k string) string { return te.vars[k] },
		Environ: te.environ,
		LookPath: func(file string) (string, error) {
			return "", errors.New("executable file not found in $PATH")
		},
		CommandOutput: func(string, ...string) ([]byte, error) { return nil, errors.New("not run") },
		FindBrowser:   func() (string, bool) { return "", false },
		Spawner:       &scriptSpawner{},
		NewExporterPool: func(size int) exporterPool {
			p := &fakePool{size: size, exporter: fakeExporter{err: te.exportErr}, empty: te.noExporter}
			te.pools = append(te.pools, p)
			return p
		},
	}
	return te
}

func (te *testEnv) environ() []string {
	out := make([]string, 0, len(te.vars))
	for k, v := range te.vars {
		out = append(out, k+"="+v)
	}
	return out
}

// writeFile writes content under dir, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Fake Interpreter
// ---------------------------------------------------------------------------

// scriptSpawner prints the source lines after the marker on stdout. A source
// containing "fail" makes the interpreter fail to start.
type scriptSpawner struct {
	mu    sync.Mutex
	paths []string
}

func (s *scriptSpawner) Spawn(_ context.Context, cmd mdexec.Command) (mdexec.Process, error) {
	s.mu.Lock()
	s.paths = append(s.paths, cmd.Path)
	s.mu.Unlock()

	source := cmd.Args[len(cmd.Args)-1]
	if strings.Contains(source, "fail") {
		return nil, mdexec.ErrSpawn
	}
	_, body, _ := strings.Cut(source, "\n")
	return scriptProcess{stdout: strings.NewReader(body)}, nil
}

func (s *scriptSpawner) interpreters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

type scriptProcess struct{ stdout io.Reader }

func (p scriptProcess) Stdout() io.Reader  { return p.stdout }
func (p scriptProcess) Stderr() io.Reader  { return strings.NewReader("") }
func (p scriptProcess) Wait() (int, error) { return 0, nil }

// ---------------------------------------------------------------------------
// Fake PDF Pool
// ---------------------------------------------------------------------------

// fakeExporter returns a fixed PDF or error.
type fakeExporter struct {
	err error
}

func (e *fakeExporter) Export(_ context.Context, html string) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte("%PDF-fake " + html[:min(len(html), 15)]), nil
}

// fakePool hands out one shared fakeExporter, or nothing when empty.
type fakePool struct {
	mu       sync.Mutex
	size     int
	exporter fakeExporter
	acquired int
	released int
	closed   bool
	empty    bool
}

func (p *fakePool) Acquire() pdfExporter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.empty {
		return nil
	}
	p.acquired++
	return &p.exporter
}

func (p *fakePool) Release(pdfExporter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}
