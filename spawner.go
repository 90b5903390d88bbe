package mdexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/alnah/go-mdexec/internal/process"
)

// Command describes one interpreter invocation.
type Command struct {
	Path string   // executable name or path
	Args []string // arguments, not including Path
	Dir  string   // working directory; empty uses the current one
	Env  []string // environment; nil inherits the current one
}

// Process is a started command with its output streams.
type Process interface {
	// Stdout returns the process standard output stream.
	Stdout() io.Reader
	// Stderr returns the process standard error stream.
	Stderr() io.Reader
	// Wait blocks until the process exits and both streams have been drained
	// by the caller. A non-zero exit is reported through exitCode, not err;
	// err is reserved for failures to observe the process at all.
	Wait() (exitCode int, err error)
}

// Spawner is the external-process capability used by ProcessRunner.
type Spawner interface {
	Spawn(ctx context.Context, cmd Command) (Process, error)
}

// ExecSpawner starts commands with os/exec. Each process gets its own process
// group, killed as a whole when ctx is canceled.
type ExecSpawner struct{}

// Compile-time interface checks.
var (
	_ Spawner = ExecSpawner{}
	_ Process = (*execProcess)(nil)
)

// Spawn implements Spawner.
func (ExecSpawner) Spawn(ctx context.Context, c Command) (Process, error) {
	if c.Path == "" {
		return nil, ErrEmptyInterpreter
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...) // #nosec G204 -- interpreter is user-configured
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	process.Configure(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	return &execProcess{ctx: ctx, cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// execProcess adapts *exec.Cmd to Process.
type execProcess struct {
	ctx    context.Context
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }

// Wait implements Process. A signal-terminated process reports exit code -1.
func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return p.cmd.ProcessState.ExitCode(), nil
	}

	// Killed through the context: report why, not the signal.
	if ctxErr := p.ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
