package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cywf/aliases/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "jobs"), 0o755))
	return store.New(root)
}

func TestSummarize(t *testing.T) {
	st := newTestStore(t)

	first, err := st.Allocate("first", "true")
	require.NoError(t, err)
	require.NoError(t, st.WriteStatus(first, 0))

	second, err := st.Allocate("second", "false")
	require.NoError(t, err)
	require.NoError(t, st.WriteStatus(second, 1))

	third, err := st.Allocate("third", "sleep 60")
	require.NoError(t, err)

	rows, err := New(st).Summarize(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, "first", rows[0].Name)
	assert.Equal(t, store.StateSucceeded, rows[0].State)
	require.NotNil(t, rows[0].ExitCode)
	assert.Equal(t, 0, *rows[0].ExitCode)

	assert.Equal(t, second.ID, rows[1].ID)
	assert.Equal(t, store.StateFailed, rows[1].State)
	require.NotNil(t, rows[1].ExitCode)
	assert.Equal(t, 1, *rows[1].ExitCode)

	assert.Equal(t, third.ID, rows[2].ID)
	assert.Equal(t, store.StateRunning, rows[2].State)
	assert.Nil(t, rows[2].ExitCode)
}

func TestSummarize_Empty(t *testing.T) {
	st := newTestStore(t)

	rows, err := New(st).Summarize(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecent(t *testing.T) {
	st := newTestStore(t)

	var ids []string
	for _, name := range []string{"a", "b", "c", "d"} {
		job, err := st.Allocate(name, "true")
		require.NoError(t, err)
		require.NoError(t, st.WriteStatus(job, 0))
		ids = append(ids, job.ID)
	}

	rows, err := New(st).Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Most recent first.
	assert.Equal(t, ids[3], rows[0].ID)
	assert.Equal(t, ids[2], rows[1].ID)
}

func TestRecent_FewerJobsThanAsked(t *testing.T) {
	st := newTestStore(t)

	job, err := st.Allocate("only", "true")
	require.NoError(t, err)
	require.NoError(t, st.WriteStatus(job, 0))

	rows, err := New(st).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
