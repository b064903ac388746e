package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/top20pulse/internal/domain/models"
	"github.com/guttosm/top20pulse/internal/ingestion"
	"github.com/guttosm/top20pulse/internal/metrics"
	"github.com/guttosm/top20pulse/internal/twse"
)

// Response status codes of one run.
const (
	StatusNominal      = 200 // skipped, no data, or fully succeeded
	StatusLoadFailure  = 601
	StatusFetchFailure = 701
)

// Response messages. The scheduler matches on these strings; keep them literal.
const (
	MsgNeutral     = "-"
	MsgFetchOK     = "OK"
	MsgFetchFailed = "Could not access TWSE or the source data format/fields had changed."
	MsgLoadOK      = "Successfully load data to BigQuery."
	MsgLoadFailed  = "Could not load data to BigQuery."
)

// ErrSourceUnavailable wraps transport-level failures reaching the exchange.
var ErrSourceUnavailable = errors.New("source unavailable")

// now is an indirection for tests.
var now = time.Now

// Fetcher retrieves the raw daily report. Implemented by *twse.Client.
type Fetcher interface {
	Fetch(ctx context.Context, today time.Time) (twse.FetchResult, error)
}

// RunResult is what one invocation reports back to the trigger.
type RunResult struct {
	AccessStockData string
	LoadDataToBQ    string
	StatusCode      int
}

// SnapshotService runs the daily fetch → transform → load pipeline.
type SnapshotService interface {
	Run(ctx context.Context) RunResult
}

type snapshotService struct {
	fetcher Fetcher
	loader  *Loader
	loc     *time.Location
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewSnapshotService wires the pipeline steps.
//
// Parameters:
//   - fetcher: exchange client.
//   - loader:  warehouse loader.
//   - loc:     exchange time zone; "today" and the weekday gate are evaluated in it.
//   - log:     logger shared by the steps.
//   - m:       optional metrics (nil disables).
func NewSnapshotService(fetcher Fetcher, loader *Loader, loc *time.Location, log zerolog.Logger, m *metrics.Metrics) SnapshotService {
	if loc == nil {
		loc = time.Local
	}
	return &snapshotService{fetcher: fetcher, loader: loader, loc: loc, log: log, metrics: m}
}

// Run executes one invocation. It never panics and always produces a result
// with one of the status codes 200, 601 or 701.
func (s *snapshotService) Run(ctx context.Context) RunResult {
	res := RunResult{AccessStockData: MsgNeutral, LoadDataToBQ: MsgNeutral, StatusCode: StatusNominal}
	defer func() { s.metrics.ObserveRun(res.StatusCode) }()

	today := now().In(s.loc)
	if !ingestion.IsTradingDay(today) {
		s.log.Info().Str("weekday", today.Weekday().String()).Msg("No update today. Have a nice weekend.")
		return res
	}

	rows, err := s.fetchAndTransform(ctx, today)
	if err != nil {
		s.log.Error().Err(err).Msg(MsgFetchFailed)
		res.StatusCode = StatusFetchFailure
		res.AccessStockData = MsgFetchFailed
		return res
	}
	res.AccessStockData = MsgFetchOK

	if len(rows) == 0 {
		s.log.Info().Msg("No new stock data to be loaded to BigQuery")
		return res
	}

	lr := s.loader.Load(ctx, rows)
	switch lr.Outcome {
	case LoadAppended:
		s.log.Info().Int("rows", len(rows)).Msg("Finished loading stock data to BigQuery.")
		res.LoadDataToBQ = MsgLoadOK
	case LoadFailed:
		res.StatusCode = StatusLoadFailure
		res.LoadDataToBQ = MsgLoadFailed
	}
	return res
}

// fetchAndTransform returns the typed batch, an empty batch when there is
// nothing new, or an error for unreachable sources and format drift.
func (s *snapshotService) fetchAndTransform(ctx context.Context, today time.Time) (rows []models.StockRow, err error) {
	start := time.Now()
	defer s.metrics.ObserveStep("fetch", start)
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: panic during fetch: %v", twse.ErrFormatDrift, r)
		}
	}()

	fr, err := s.fetcher.Fetch(ctx, today)
	if err != nil {
		s.metrics.ObserveFetch("format_drift")
		return nil, err
	}
	s.metrics.ObserveFetch(fr.Outcome.String())

	switch fr.Outcome {
	case twse.FetchTransportFailure:
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, fr.Err)
	case twse.FetchNoTradingToday:
		return nil, nil
	}

	rows, err = ingestion.Transform(s.log, fr.Rows, fr.ReportedDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", twse.ErrFormatDrift, err)
	}
	return rows, nil
}
