// Package report is the read side of the job subsystem: it assembles job
// summaries for display and performs no mutation.
package report

import (
	"context"
	"sort"

	"github.com/cywf/aliases/internal/parallel"
	"github.com/cywf/aliases/internal/store"
)

// statusReaders bounds how many job states are resolved concurrently.
const statusReaders = 8

// Row is one job summary line: id, label, state and, once terminal, the
// exit code.
type Row struct {
	ID       string
	Name     string
	State    store.State
	ExitCode *int
}

// Reporter reads back job records for the front-end.
type Reporter struct {
	store *store.Store
}

// New creates a reporter over st.
func New(st *store.Store) *Reporter {
	return &Reporter{store: st}
}

// Summarize returns one row per job in submission order. States are
// resolved by checking each job's status file, in parallel since every job
// lives in its own directory.
func (r *Reporter) Summarize(ctx context.Context) ([]Row, error) {
	resolve := func(_ context.Context, job *store.Job) (Row, error) {
		state, code := r.store.ReadStatus(job)
		return Row{
			ID:       job.ID,
			Name:     job.Name,
			State:    state,
			ExitCode: code,
		}, nil
	}

	var rows []Row
	for row, err := range parallel.Map(ctx, statusReaders, r.store.List(), resolve) {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	// Parallel resolution loses ordering; ids sort back into submission
	// order by construction.
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// Recent returns up to n rows, most recent first.
func (r *Reporter) Recent(ctx context.Context, n int) ([]Row, error) {
	rows, err := r.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	if n < len(rows) {
		rows = rows[len(rows)-n:]
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
