// Package store contains the filesystem persistence layer for job records.
package store

import "path/filepath"

// State represents the lifecycle state of a job.
type State string

const (
	// StateRunning means the job directory exists but no status file has
	// been written yet.
	StateRunning State = "running"

	// StateSucceeded means the status file records exit code zero.
	StateSucceeded State = "succeeded"

	// StateFailed means the status file records a non-zero exit code.
	StateFailed State = "failed"

	// StateUnknown means the job directory is missing or its status file
	// is corrupted, e.g. the host process was killed mid-write.
	StateUnknown State = "unknown"
)

// Job is a handle to one tracked unit of asynchronous work. The command
// string is held in memory only; on disk a job is its directory plus the
// name, log and status files.
type Job struct {
	ID      string
	Name    string
	Command string
	Dir     string
}

// NamePath returns the location of the persisted job label.
func (j *Job) NamePath() string { return filepath.Join(j.Dir, "name.txt") }

// LogPath returns the location of the captured combined stdout+stderr.
func (j *Job) LogPath() string { return filepath.Join(j.Dir, "log.txt") }

// StatusPath returns the location of the status file, written once on
// completion.
func (j *Job) StatusPath() string { return filepath.Join(j.Dir, "status.txt") }
