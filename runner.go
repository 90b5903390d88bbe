package mdexec

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Interpreter flags: unbuffered stdio, script passed inline.
var interpreterFlags = []string{"-u", "-c"}

// readChunkSize bounds a single stdout/stderr chunk.
const readChunkSize = 4096

// RunState is the lifecycle state of a Run.
type RunState int

// Run states. Completed and Failed are terminal.
const (
	RunIdle RunState = iota
	RunRunning
	RunCompleted
	RunFailed
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Run is one interpreter execution for one rendered block.
type Run struct {
	id   string
	done chan struct{}

	mu       sync.Mutex
	state    RunState
	exitCode int
	err      error
}

func newRun() *Run {
	return &Run{
		id:       uuid.NewString(),
		done:     make(chan struct{}),
		exitCode: -1,
	}
}

// ID returns the run identifier, also set as the container's data-run-id.
func (r *Run) ID() string { return r.id }

// Done is closed when the run reaches Completed or Failed.
func (r *Run) Done() <-chan struct{} { return r.done }

// State returns the current state.
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ExitCode returns the interpreter exit code, or -1 if it never exited normally.
func (r *Run) ExitCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitCode
}

// Err returns the spawn or runtime error of a Failed run.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait blocks until the run finishes or ctx is done. It returns only ctx's
// error: script failures are written into the output container.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Run) setState(s RunState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Run) complete(exitCode int) {
	r.mu.Lock()
	r.state = RunCompleted
	r.exitCode = exitCode
	r.mu.Unlock()
	close(r.done)
}

func (r *Run) fail(err error) {
	r.mu.Lock()
	r.state = RunFailed
	r.err = err
	r.mu.Unlock()
	close(r.done)
}

// ProcessRunner executes block source with the configured interpreter and
// streams its output into an Element.
type ProcessRunner struct {
	lang     Language
	settings SettingsProvider
	spawner  Spawner
	log      commonlog.Logger
}

// NewProcessRunner creates a runner. A nil spawner uses ExecSpawner.
func NewProcessRunner(lang Language, settings SettingsProvider, spawner Spawner) *ProcessRunner {
	if spawner == nil {
		spawner = ExecSpawner{}
	}
	return &ProcessRunner{
		lang:     lang,
		settings: settings,
		spawner:  spawner,
		log:      commonlog.GetLogger("mdexec.run"),
	}
}

// Start clears out and launches source. It returns immediately; the run
// continues in the background until the process closes or fails.
// No timeout applies: only ctx cancellation stops a running process.
func (p *ProcessRunner) Start(ctx context.Context, source string, out Element) *Run {
	run := newRun()
	s := p.settings.Settings()

	out.Empty()
	out.SetAttr("data-run-id", run.id)
	run.setState(RunRunning)

	go p.execute(ctx, run, s, source, newOutputWriter(out, p.lang))
	return run
}

// stream identifies the origin of an output chunk.
type stream int

const (
	streamStdout stream = iota + 1
	streamStderr
)

// chunk is one decoded read from a process stream.
type chunk struct {
	from stream
	text string
}

// execute drives one run. All writes to the output container happen on this
// goroutine, in arrival order.
func (p *ProcessRunner) execute(ctx context.Context, run *Run, s Settings, source string, w *outputWriter) {
	cmd := Command{
		Path: s.InterpreterPath,
		Args: append(append([]string(nil), interpreterFlags...), source),
	}

	p.log.Debugf("run %s: spawning %s", run.id, cmd.Path)
	proc, err := p.spawner.Spawn(ctx, cmd)
	if err != nil {
		p.log.Infof("run %s: interpreter did not start: %v", run.id, err)
		w.failure(err)
		run.fail(err)
		return
	}

	chunks := make(chan chunk)
	var wg sync.WaitGroup
	wg.Add(2)
	go pump(proc.Stdout(), streamStdout, chunks, &wg)
	go pump(proc.Stderr(), streamStderr, chunks, &wg)
	go func() {
		wg.Wait()
		close(chunks)
	}()

	for c := range chunks {
		switch c.from {
		case streamStdout:
			w.stdout(c.text)
		case streamStderr:
			w.stderr(c.text)
		}
	}

	code, err := proc.Wait()
	if err != nil {
		p.log.Infof("run %s: failed: %v", run.id, err)
		w.failure(err)
		run.fail(err)
		return
	}

	p.log.Debugf("run %s: exited with code %d", run.id, code)
	if s.ShowExitStatus {
		w.exitStatus(code)
	}
	run.complete(code)
}

// pump forwards decoded chunks of r until EOF or a read error. Multi-byte
// characters split across reads are held back until complete.
func pump(r io.Reader, from stream, out chan<- chunk, wg *sync.WaitGroup) {
	defer wg.Done()

	decoded := transform.NewReader(r, unicode.UTF8.NewDecoder())
	buf := make([]byte, readChunkSize)
	for {
		n, err := decoded.Read(buf)
		if n > 0 {
			out <- chunk{from: from, text: string(buf[:n])}
		}
		if err != nil {
			// EOF, or the pipe closed because the process was killed.
			return
		}
	}
}
