package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/top20pulse/internal/domain/models"
	"github.com/guttosm/top20pulse/internal/metrics"
	"github.com/guttosm/top20pulse/internal/storage"
)

// LoadOutcome enumerates what a load can produce.
type LoadOutcome int

const (
	LoadSkipped LoadOutcome = iota
	LoadAppended
	LoadFailed
)

// LoadResult is the outcome of one load. Rows and Columns describe the whole
// destination table after the append, not the delta.
type LoadResult struct {
	Outcome LoadOutcome
	Rows    int64
	Columns int
	Err     error
}

// Loader appends typed batches to the warehouse.
type Loader struct {
	repo    storage.StockRepository
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewLoader builds a Loader over repo. m may be nil.
func NewLoader(repo storage.StockRepository, log zerolog.Logger, m *metrics.Metrics) *Loader {
	return &Loader{repo: repo, log: log, metrics: m}
}

// Load appends rows to the destination table.
//
// Behavior:
//   - An empty batch is skipped without touching the warehouse.
//   - Creates the table on first use, then appends (never overwrites).
//   - Any repository error (or panic) becomes LoadFailed.
func (l *Loader) Load(ctx context.Context, rows []models.StockRow) (res LoadResult) {
	if len(rows) == 0 {
		return LoadResult{Outcome: LoadSkipped}
	}

	start := time.Now()
	defer l.metrics.ObserveStep("load", start)
	defer func() {
		if r := recover(); r != nil {
			res = l.fail(fmt.Errorf("panic during load: %v", r))
		}
	}()

	if err := l.repo.EnsureTable(ctx); err != nil {
		return l.fail(err)
	}
	if err := l.repo.AppendStockRows(ctx, rows); err != nil {
		return l.fail(fmt.Errorf("append to %s: %w", l.repo.Target(), err))
	}
	st, err := l.repo.TableStats(ctx)
	if err != nil {
		return l.fail(fmt.Errorf("stats of %s: %w", l.repo.Target(), err))
	}

	l.metrics.ObserveLoad(len(rows), st.Rows)
	l.log.Info().
		Int("appended", len(rows)).
		Int64("rows", st.Rows).
		Int("columns", st.Columns).
		Dur("elapsed", time.Since(start)).
		Msgf("Loaded %d rows and %d columns to %s", st.Rows, st.Columns, l.repo.Target())
	return LoadResult{Outcome: LoadAppended, Rows: st.Rows, Columns: st.Columns}
}

func (l *Loader) fail(err error) LoadResult {
	l.log.Error().Err(err).Msg("Could not load data to the warehouse.")
	return LoadResult{Outcome: LoadFailed, Err: err}
}
