// Package twse fetches the daily top-20 most traded stocks report from the
// Taiwan Stock Exchange.
package twse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/guttosm/top20pulse/internal/domain/models"
)

// DateLayout is the exchange calendar format used by the "date" field.
const DateLayout = "20060102"

// ErrFormatDrift marks a payload whose layout no longer matches the expected schema.
var ErrFormatDrift = errors.New("source format drift")

// FetchOutcome enumerates what a fetch can produce.
type FetchOutcome int

const (
	FetchSuccess FetchOutcome = iota
	FetchNoTradingToday
	FetchTransportFailure
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchSuccess:
		return "success"
	case FetchNoTradingToday:
		return "no_trading_today"
	case FetchTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// FetchResult is the outcome of one fetch.
//
// Rows and ReportedDate are set only for FetchSuccess; Err only for FetchTransportFailure.
type FetchResult struct {
	Outcome      FetchOutcome
	Rows         []models.RawRow
	ReportedDate time.Time
	Err          error
}

// payload mirrors the parts of the MI_INDEX20 response we read.
type payload struct {
	Stat string  `json:"stat"`
	Date string  `json:"date"`
	Data [][]any `json:"data"`
}

// Client talks to the exchange endpoint.
type Client struct {
	rc  *resty.Client
	url string
	log zerolog.Logger
}

// NewClient builds a Client for url. A zero timeout keeps resty's default (none).
func NewClient(url string, timeout time.Duration, log zerolog.Logger) *Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc, url: url, log: log}
}

// Fetch retrieves the report and checks it against today.
//
// Behavior:
//   - Connection errors and non-200 responses yield FetchTransportFailure, not an error.
//   - A reported date different from today (or missing) yields FetchNoTradingToday.
//   - Undecodable JSON or rows that do not match the 13-column layout return an
//     error wrapping ErrFormatDrift.
//
// Parameters:
//   - ctx: request context, cancels the outbound call.
//   - today: invocation date in the exchange time zone.
func (c *Client) Fetch(ctx context.Context, today time.Time) (FetchResult, error) {
	c.log.Info().Str("url", c.url).Msg("Start to fetch stock data from TWSE.")

	resp, err := c.rc.R().SetContext(ctx).Get(c.url)
	if err != nil {
		c.log.Error().Err(err).Msg("Connection to TWSE failed.")
		return FetchResult{Outcome: FetchTransportFailure, Err: err}, nil
	}
	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode())
		c.log.Error().Int("status", resp.StatusCode()).Msg("Failed to fetch and organize stock data from TWSE.")
		return FetchResult{Outcome: FetchTransportFailure, Err: err}, nil
	}

	var p payload
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return FetchResult{}, fmt.Errorf("%w: decode payload: %v", ErrFormatDrift, err)
	}

	// Holidays: TWSE keeps serving the last trading day, or no date at all.
	if p.Date != today.Format(DateLayout) {
		c.log.Info().Str("reported_date", p.Date).Str("stat", p.Stat).Msg("No stock trading today.")
		return FetchResult{Outcome: FetchNoTradingToday}, nil
	}

	reported, err := time.ParseInLocation(DateLayout, p.Date, today.Location())
	if err != nil {
		return FetchResult{}, fmt.Errorf("%w: parse date %q: %v", ErrFormatDrift, p.Date, err)
	}

	rows, err := mapRows(p.Data)
	if err != nil {
		return FetchResult{}, err
	}

	c.log.Info().Int("rows", len(rows)).Str("reported_date", p.Date).Msg("Successfully downloaded top 20 stock data from TWSE.")
	return FetchResult{Outcome: FetchSuccess, Rows: rows, ReportedDate: reported}, nil
}

// mapRows names positional fields and unwraps the direction markup.
func mapRows(data [][]any) ([]models.RawRow, error) {
	if len(data) > models.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d rows, expected at most %d", ErrFormatDrift, len(data), models.MaxBatchSize)
	}

	rows := make([]models.RawRow, 0, len(data))
	for i, rec := range data {
		if len(rec) != len(models.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d fields, expected %d", ErrFormatDrift, i+1, len(rec), len(models.Columns))
		}
		row := make(models.RawRow, len(models.Columns))
		for j, name := range models.Columns {
			row[name] = rec[j]
		}
		if s, ok := row[models.ColUpsOrDowns].(string); ok {
			row[models.ColUpsOrDowns] = ExtractDirection(s)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
