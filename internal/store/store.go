package store

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Store is a filesystem-backed table of job records, one directory per job
// under <root>/jobs. The store owns the on-disk representation; the runner
// goroutine for a given job is the sole writer of that job's log and status
// files, so no locking is needed.
type Store struct {
	jobsDir  string
	instance string
	seq      atomic.Uint64
}

// New creates a store rooted at root. The root (including its jobs
// subdirectory) must already exist; env.ResolveRoot takes care of that.
func New(root string) *Store {
	return &Store{
		jobsDir: filepath.Join(root, "jobs"),
		// Distinguishes concurrently running store instances, so two
		// processes allocating in the same millisecond cannot collide.
		instance: uuid.NewString()[:8],
	}
}

// Allocate generates a fresh job id, creates its directory and persists the
// label. The log and status paths are resolved but not yet created. name
// falls back to the command string when empty.
func (s *Store) Allocate(name, command string) (*Job, error) {
	if name == "" {
		name = command
	}

	// Fixed-width millisecond timestamp first, so lexical directory order
	// is submission order. The per-process counter keeps ids distinct
	// under same-millisecond submission.
	id := fmt.Sprintf("%013d-%s-%06d", time.Now().UnixMilli(), s.instance, s.seq.Add(1))

	job := &Job{
		ID:      id,
		Name:    name,
		Command: command,
		Dir:     filepath.Join(s.jobsDir, id),
	}

	if err := os.Mkdir(job.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create job directory: %w", err)
	}
	if err := os.WriteFile(job.NamePath(), []byte(name+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to persist job name: %w", err)
	}
	return job, nil
}

// Get returns a handle for an existing job id. The label is read
// best-effort; a missing directory still yields a handle, whose state reads
// as unknown.
func (s *Store) Get(id string) *Job {
	job := &Job{
		ID:  id,
		Dir: filepath.Join(s.jobsDir, id),
	}
	if b, err := os.ReadFile(job.NamePath()); err == nil {
		job.Name = strings.TrimSuffix(string(b), "\n")
	}
	return job
}

// List enumerates job directories as a lazy, restartable sequence in
// directory name order, which by id construction is submission order.
func (s *Store) List() iter.Seq2[*Job, error] {
	return func(yield func(*Job, error) bool) {
		entries, err := os.ReadDir(s.jobsDir)
		if err != nil {
			yield(nil, fmt.Errorf("failed to list jobs: %w", err))
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if !yield(s.Get(entry.Name()), nil) {
				return
			}
		}
	}
}

// ReadStatus resolves the current state of a job and, once terminal, its
// exit code. A missing status file with an existing directory means the job
// is still running; a missing directory or a malformed status file reads as
// unknown rather than failing, since on-disk state may be left half-formed
// by a crashed host process.
func (s *Store) ReadStatus(job *Job) (State, *int) {
	b, err := os.ReadFile(job.StatusPath())
	if err != nil {
		if _, statErr := os.Stat(job.Dir); statErr == nil {
			return StateRunning, nil
		}
		return StateUnknown, nil
	}

	var code int
	if _, err := fmt.Sscanf(string(bytes.TrimSpace(b)), "exit %d", &code); err != nil {
		return StateUnknown, nil
	}
	if code == 0 {
		return StateSucceeded, &code
	}
	return StateFailed, &code
}

// WriteStatus records the final exit code for a job. It is written to a
// temporary file and renamed into place, so a concurrent reader never
// observes a partially written status value. Called exactly once per job,
// after the log is complete.
func (s *Store) WriteStatus(job *Job, exitCode int) error {
	tmp, err := os.CreateTemp(job.Dir, ".status-*")
	if err != nil {
		return fmt.Errorf("failed to stage status file: %w", err)
	}
	if _, err := fmt.Fprintf(tmp, "exit %d\n", exitCode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write status: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close status file: %w", err)
	}
	if err := os.Rename(tmp.Name(), job.StatusPath()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to publish status file: %w", err)
	}
	return nil
}

// tailChunkSize is how much of the log is read per backwards step in TailLog.
const tailChunkSize = 4096

// TailLog returns up to the last n lines of the job's log at the moment of
// the call. It never blocks or follows; a job still appending to its log
// simply yields the lines present so far. The log is scanned backwards in
// fixed-size chunks so large logs are not read whole.
func (s *Store) TailLog(job *Job, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	f, err := os.Open(job.LogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat log: %w", err)
	}

	var (
		tail []byte
		off  = info.Size()
	)
	for off > 0 {
		size := int64(tailChunkSize)
		if off < size {
			size = off
		}
		off -= size

		chunk := make([]byte, size)
		if _, err := f.ReadAt(chunk, off); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read log: %w", err)
		}
		tail = append(chunk, tail...)

		// Enough newlines to cover n lines plus a trailing one.
		if bytes.Count(tail, []byte{'\n'}) > n {
			break
		}
	}

	lines := strings.Split(strings.TrimSuffix(string(tail), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
