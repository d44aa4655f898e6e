package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cywf/aliases/internal/logger"
	"github.com/cywf/aliases/internal/store"
)

func newTestRunner(t *testing.T) (*Runner, *store.Store) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "jobs"), 0o755))
	st := store.New(root)
	return New(st, "/bin/sh", logger.New(false)), st
}

func TestExecute_SyncExitCode(t *testing.T) {
	r, _ := newTestRunner(t)

	res, err := r.Execute(context.Background(), "exit 7", Options{
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, res.ExitCode)
	assert.False(t, res.Background)
	assert.Empty(t, res.JobID)
}

func TestExecute_SyncSuccess(t *testing.T) {
	r, _ := newTestRunner(t)

	var out bytes.Buffer
	res, err := r.Execute(context.Background(), "echo inline", Options{
		Stdout: &out,
		Stderr: io.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "inline\n", out.String())
}

func TestExecute_SyncSpawnFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "jobs"), 0o755))
	r := New(store.New(root), "/nonexistent/shell", logger.New(false))

	res, err := r.Execute(context.Background(), "true", Options{
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	assert.Error(t, err)
	assert.Equal(t, AbnormalExit, res.ExitCode)
}

func TestExecute_Background(t *testing.T) {
	r, st := newTestRunner(t)

	res, err := r.Execute(context.Background(), "echo hello", Options{
		Background: true,
		Name:       "greet",
	})
	require.NoError(t, err)
	assert.True(t, res.Background)
	require.NotEmpty(t, res.JobID)

	r.Wait()

	job := st.Get(res.JobID)
	assert.Equal(t, "greet", job.Name)

	state, code := st.ReadStatus(job)
	assert.Equal(t, store.StateSucceeded, state)
	require.NotNil(t, code)
	assert.Equal(t, 0, *code)

	log, err := os.ReadFile(job.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(log), "hello")
	assert.Contains(t, string(log), "--- exit 0 ---")
}

func TestExecute_BackgroundMergesStderr(t *testing.T) {
	r, st := newTestRunner(t)

	res, err := r.Execute(context.Background(), "echo oops 1>&2; exit 1", Options{
		Background: true,
	})
	require.NoError(t, err)

	r.Wait()

	job := st.Get(res.JobID)
	state, code := st.ReadStatus(job)
	assert.Equal(t, store.StateFailed, state)
	require.NotNil(t, code)
	assert.Equal(t, 1, *code)

	log, err := os.ReadFile(job.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(log), "oops")
}

func TestExecute_BackgroundSpawnFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "jobs"), 0o755))
	st := store.New(root)
	r := New(st, "/nonexistent/shell", logger.New(false))

	// A failed spawn must surface as a failed job, not as an error.
	res, err := r.Execute(context.Background(), "true", Options{Background: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.JobID)

	r.Wait()

	job := st.Get(res.JobID)
	state, code := st.ReadStatus(job)
	assert.Equal(t, store.StateFailed, state)
	require.NotNil(t, code)
	assert.Equal(t, AbnormalExit, *code)

	log, err := os.ReadFile(job.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(log), "spawn failed")
}

func TestExecute_BackgroundReturnsBeforeCompletion(t *testing.T) {
	r, st := newTestRunner(t)

	res, err := r.Execute(context.Background(), "sleep 0.3; echo done", Options{
		Background: true,
	})
	require.NoError(t, err)

	// The call returned while the job is still running, and a status read
	// at this point reports running without blocking.
	job := st.Get(res.JobID)
	state, _ := st.ReadStatus(job)
	assert.Equal(t, store.StateRunning, state)

	// Tailing a running job's log must not block either.
	lines, err := st.TailLog(job, 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(lines), 5)

	r.Wait()

	state, code := st.ReadStatus(job)
	assert.Equal(t, store.StateSucceeded, state)
	require.NotNil(t, code)
	assert.Equal(t, 0, *code)
}

func TestExecute_BackgroundJobsIsolated(t *testing.T) {
	r, st := newTestRunner(t)

	ok, err := r.Execute(context.Background(), "echo fine", Options{Background: true})
	require.NoError(t, err)
	bad, err := r.Execute(context.Background(), "exit 9", Options{Background: true})
	require.NoError(t, err)

	r.Wait()

	state, code := st.ReadStatus(st.Get(ok.JobID))
	assert.Equal(t, store.StateSucceeded, state)
	require.NotNil(t, code)
	assert.Equal(t, 0, *code)

	state, code = st.ReadStatus(st.Get(bad.JobID))
	assert.Equal(t, store.StateFailed, state)
	require.NotNil(t, code)
	assert.Equal(t, 9, *code)
}
