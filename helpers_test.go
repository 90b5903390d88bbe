package mdexec

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdexec/internal/dom"
)

// testTimeout bounds waits on runs in tests.
const testTimeout = 10 * time.Second

// ---------------------------------------------------------------------------
// Document helpers
// ---------------------------------------------------------------------------

// newHost returns an empty <div id="host"> in a fresh document.
func newHost(t *testing.T) *dom.Element {
	t.Helper()

	doc, err := dom.ParseString(`<html><body><div id="host"></div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	host, err := doc.QueryOne("#host")
	if err != nil || host == nil {
		t.Fatalf("QueryOne(#host) = %v, %v", host, err)
	}
	return host
}

// waitRun waits for run to finish or fails the test.
func waitRun(t *testing.T, run *Run) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	if err := run.Wait(ctx); err != nil {
		t.Fatalf("run did not finish: %v", err)
	}
}

// onlyChild returns the single element child of el.
func onlyChild(t *testing.T, el *dom.Element) *dom.Element {
	t.Helper()

	children := el.Children()
	if len(children) != 1 {
		t.Fatalf("%s has %d children, want 1: %s", el.Tag(), len(children), el.OuterHTML())
	}
	return children[0]
}

// ---------------------------------------------------------------------------
// Fake spawner and process
// ---------------------------------------------------------------------------

// fakeProcess replays fixed stream contents and exit status.
type fakeProcess struct {
	stdout   io.Reader
	stderr   io.Reader
	exitCode int
	waitErr  error
}

func (p *fakeProcess) Stdout() io.Reader  { return p.stdout }
func (p *fakeProcess) Stderr() io.Reader  { return p.stderr }
func (p *fakeProcess) Wait() (int, error) { return p.exitCode, p.waitErr }

func newFakeProcess(stdout, stderr string) *fakeProcess {
	return &fakeProcess{stdout: strings.NewReader(stdout), stderr: strings.NewReader(stderr)}
}

// fakeSpawner records commands and returns a prepared process or error.
type fakeSpawner struct {
	mu       sync.Mutex
	commands []Command
	newProc  func(Command) *fakeProcess
	err      error
}

func (s *fakeSpawner) Spawn(_ context.Context, cmd Command) (Process, error) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if s.newProc == nil {
		return newFakeProcess("", ""), nil
	}
	return s.newProc(cmd), nil
}

func (s *fakeSpawner) calls() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// echoSpawner prints the script source (without the marker line) to stdout.
func echoSpawner() *fakeSpawner {
	return &fakeSpawner{newProc: func(cmd Command) *fakeProcess {
		source := cmd.Args[len(cmd.Args)-1]
		_, body, _ := strings.Cut(source, "\n")
		return newFakeProcess(body, "")
	}}
}

// pipeProcess exposes writable streams so tests control chunk order.
type pipeProcess struct {
	outR, errR *io.PipeReader
	outW, errW *io.PipeWriter
	exitCode   int
}

func newPipeProcess() *pipeProcess {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	return &pipeProcess{outR: outR, errR: errR, outW: outW, errW: errW}
}

func (p *pipeProcess) Stdout() io.Reader  { return p.outR }
func (p *pipeProcess) Stderr() io.Reader  { return p.errR }
func (p *pipeProcess) Wait() (int, error) { return p.exitCode, nil }

func (p *pipeProcess) close() {
	_ = p.outW.Close()
	_ = p.errW.Close()
}

// pipeSpawner always returns the same pipeProcess.
type pipeSpawner struct{ proc *pipeProcess }

func (s pipeSpawner) Spawn(context.Context, Command) (Process, error) { return s.proc, nil }

// ---------------------------------------------------------------------------
// Notifying sink
// ---------------------------------------------------------------------------

// notifyElement signals on every text append anywhere below it.
type notifyElement struct {
	Element
	appended chan<- struct{}
}

func (n *notifyElement) CreateChild(tag, class string) Element {
	return &notifyElement{Element: n.Element.CreateChild(tag, class), appended: n.appended}
}

func (n *notifyElement) AppendText(text string) {
	n.Element.AppendText(text)
	n.appended <- struct{}{}
}

// ---------------------------------------------------------------------------
// Fake highlighter
// ---------------------------------------------------------------------------

// upperHighlighter wraps the source in a span, or fails when err is set.
type upperHighlighter struct {
	err error
}

func (h upperHighlighter) Highlight(source, _ string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return `<span class="hl">` + strings.ToUpper(source) + `</span>`, nil
}

var errHighlight = errors.New("highlight broke")

// ---------------------------------------------------------------------------
// Mutable settings
// ---------------------------------------------------------------------------

// mutableSettings is a SettingsProvider whose values change between calls.
type mutableSettings struct {
	mu sync.Mutex
	s  Settings
}

func (m *mutableSettings) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s
}

func (m *mutableSettings) set(s Settings) {
	m.mu.Lock()
	m.s = s
	m.mu.Unlock()
}

// containsHTML reports whether the serialized element contains fragment.
func containsHTML(el *dom.Element, fragment string) bool {
	return strings.Contains(el.OuterHTML(), fragment)
}
