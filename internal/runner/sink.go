package runner

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cywf/aliases/internal/store"
)

// pump is the log sink for one background job. It drains the merged
// stdout+stderr pipe into the job's log file chunk by chunk, so a
// concurrent tail sees near-real-time progress, then waits for the process,
// appends the terminal marker and closes the log before the status file is
// written. The status write is the last action taken for a job: a reader
// that observes it is guaranteed the log is complete.
func (r *Runner) pump(job *store.Job, logFile *os.File, pipe *os.File, cmd waiter, lg *slog.Logger) {
	buf := make([]byte, 32*1024)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			// Unbuffered writes straight to the file, each chunk is
			// visible to a concurrent reader as soon as it arrives.
			if _, werr := logFile.Write(buf[:n]); werr != nil {
				lg.Error("failed to append to job log", "error", werr)
			}
		}
		if err != nil {
			if err != io.EOF {
				// An externally killed process error-terminates the
				// stream; the job still gets its status write below.
				lg.Error("failed to read job output", "error", err)
			}
			break
		}
	}
	pipe.Close()

	code := exitCode(cmd.Wait())
	r.finalize(job, logFile, code, lg)
}

// finalize appends the terminal marker, closes the log and publishes the
// status file. Log I/O failures are logged best-effort and never prevent
// the status write, so a job cannot stay running forever over a bad log.
func (r *Runner) finalize(job *store.Job, logFile *os.File, code int, lg *slog.Logger) {
	if _, err := fmt.Fprintf(logFile, "--- exit %d ---\n", code); err != nil {
		lg.Error("failed to write log marker", "error", err)
	}
	if err := logFile.Close(); err != nil {
		lg.Error("failed to close job log", "error", err)
	}
	if err := r.store.WriteStatus(job, code); err != nil {
		lg.Error("failed to record job status", "error", err)
		return
	}
	lg.Info("job finished", "exit_code", code)
}

// waiter is the slice of exec.Cmd the sink needs, kept narrow for tests.
type waiter interface {
	Wait() error
}
