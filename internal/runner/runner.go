// Package runner spawns external commands, either synchronously or as
// tracked background jobs whose output and exit status are persisted
// through the store.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/cywf/aliases/internal/logger"
	"github.com/cywf/aliases/internal/store"
)

// AbnormalExit is the sentinel exit code recorded when a process could not
// be spawned or did not terminate normally. Shell-spawned processes exit
// with 0-255, so the sentinel is distinguishable from every real code.
const AbnormalExit = -1

// Runner executes opaque shell command strings. The command string is
// passed to the shell verbatim: no escaping, quoting or validation happens
// here, the caller is responsible for constructing a safe command line.
type Runner struct {
	store *store.Store
	shell string
	log   *slog.Logger
	wg    sync.WaitGroup
}

// New creates a runner that records background jobs in st and spawns
// commands through shell ("<shell> -c <command>").
func New(st *store.Store, shell string, log *slog.Logger) *Runner {
	return &Runner{
		store: st,
		shell: shell,
		log:   log,
	}
}

// Options controls a single Execute call.
type Options struct {
	// Background detaches execution: a job record is created and the call
	// returns immediately with its id.
	Background bool

	// Name labels a background job; defaults to the command string.
	Name string

	// Stdin, Stdout and Stderr are wired to synchronous commands only.
	// Nil values default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the outcome of an Execute call: an exit code for the
// synchronous path, a job id for the background path.
type Result struct {
	Background bool
	ExitCode   int
	JobID      string
}

// Execute runs command through the shell. Synchronously it blocks until
// termination and returns the exit code. In background mode it allocates a
// job, spawns the process with stdout and stderr merged, hands the stream
// to a goroutine that owns the job's log until exit, and returns the job id
// without waiting. A failed spawn in background mode is recorded as a
// failed job with the AbnormalExit sentinel, never returned as an error.
func (r *Runner) Execute(ctx context.Context, command string, opts Options) (Result, error) {
	if opts.Background {
		return r.background(command, opts.Name)
	}
	return r.foreground(ctx, command, opts)
}

func (r *Runner) foreground(ctx context.Context, command string, opts Options) (Result, error) {
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	code := exitCode(err)
	if code == AbnormalExit {
		return Result{ExitCode: code}, fmt.Errorf("failed to run %q: %w", command, err)
	}
	return Result{ExitCode: code}, nil
}

func (r *Runner) background(command, name string) (Result, error) {
	job, err := r.store.Allocate(name, command)
	if err != nil {
		return Result{}, err
	}

	ctx := logger.WithJobID(context.Background(), job.ID)
	lg := logger.FromContext(ctx, r.log)

	logFile, err := os.OpenFile(job.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// Without a log file there is nothing to capture, but the job
		// must still reach a terminal state.
		lg.Error("failed to create job log", "error", err)
		if werr := r.store.WriteStatus(job, AbnormalExit); werr != nil {
			lg.Error("failed to record job status", "error", werr)
		}
		return Result{Background: true, JobID: job.ID}, nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		fmt.Fprintf(logFile, "spawn failed: %v\n", err)
		r.finalize(job, logFile, AbnormalExit, lg)
		return Result{Background: true, JobID: job.ID}, nil
	}

	// Background jobs deliberately run on their own context: there is no
	// cancellation primitive, a job runs until its process exits or is
	// killed externally.
	cmd := exec.Command(r.shell, "-c", command)
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		lg.Error("failed to spawn command", "error", err)
		fmt.Fprintf(logFile, "spawn failed: %v\n", err)
		r.finalize(job, logFile, AbnormalExit, lg)
		return Result{Background: true, JobID: job.ID}, nil
	}
	pw.Close()

	lg.Info("job started", "name", job.Name, "pid", cmd.Process.Pid)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.pump(job, logFile, pr, cmd, lg)
	}()

	return Result{Background: true, JobID: job.ID}, nil
}

// Wait blocks until every in-flight background job has reached its terminal
// status write. Exiting the host process earlier would orphan running jobs
// without a status file.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// exitCode maps a cmd.Run/Wait error to the exit code convention: 0 on
// success, the process's own code on normal non-zero exit, and the sentinel
// for spawn failures and signal-terminated processes.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return AbnormalExit
}
