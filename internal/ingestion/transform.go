package ingestion

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/top20pulse/internal/domain/models"
)

// numericColumns carry thousands separators in the exchange payload.
// The first two are counts, the rest are prices.
var numericColumns = []string{
	models.ColSharesTraded,
	models.ColOrdersTraded,
	models.ColOpeningPrice,
	models.ColHighestPrice,
	models.ColLowestPrice,
	models.ColClosingPrice,
	models.ColSpread,
	models.ColFinalBuyingPrice,
	models.ColFinalSellingPrice,
}

// Transform turns raw exchange rows into typed StockRows dated reportedDate.
//
// Behavior:
//   - Strips "," from the nine numeric columns, but only for columns whose values
//     are all strings; other columns are logged and left alone.
//   - Parses share/order counts as integers and prices as floats. Any value that
//     cannot be parsed fails the whole batch, naming row and column.
//   - Returns rows ordered by ascending rank.
//
// Parameters:
//   - log:          logger for per-column anomalies.
//   - raw:          rows already keyed by column name (see models.Columns).
//   - reportedDate: trade date reported by the exchange.
func Transform(log zerolog.Logger, raw []models.RawRow, reportedDate time.Time) ([]models.StockRow, error) {
	rows := make([]models.RawRow, len(raw))
	for i, r := range raw {
		cp := make(models.RawRow, len(r))
		for k, v := range r {
			cp[k] = v
		}
		rows[i] = cp
	}

	for _, col := range numericColumns {
		if !allStrings(rows, col) {
			log.Warn().Str("column", col).Msgf("Data type of column %s is not string. Skip it.", col)
			continue
		}
		for _, r := range rows {
			r[col] = strings.ReplaceAll(r[col].(string), ",", "")
		}
	}

	tradeDate := truncateToDate(reportedDate)
	out := make([]models.StockRow, 0, len(rows))
	for i, r := range rows {
		sr, err := toStockRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		sr.TradeDate = tradeDate
		out = append(out, sr)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func allStrings(rows []models.RawRow, col string) bool {
	for _, r := range rows {
		if _, ok := r[col].(string); !ok {
			return false
		}
	}
	return true
}

// toStockRow converts one normalized raw row. It is STRICT about numeric
// columns: there is no safe default for a count or a price.
func toStockRow(r models.RawRow) (models.StockRow, error) {
	var s models.StockRow
	var err error

	rank, err := toInt(r[models.ColRank])
	if err != nil {
		return s, fmt.Errorf("invalid %s: %w", models.ColRank, err)
	}
	if rank < 1 {
		return s, fmt.Errorf("invalid %s: %d is below 1", models.ColRank, rank)
	}
	s.Rank = int(rank)

	s.StockID = toText(r[models.ColStockID])
	s.StockName = toText(r[models.ColStockName])
	s.Direction = toText(r[models.ColUpsOrDowns])

	ints := []struct {
		col string
		dst *int64
	}{
		{models.ColSharesTraded, &s.SharesTraded},
		{models.ColOrdersTraded, &s.OrdersTraded},
	}
	for _, f := range ints {
		if *f.dst, err = toInt(r[f.col]); err != nil {
			return s, fmt.Errorf("invalid %s: %w", f.col, err)
		}
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{models.ColOpeningPrice, &s.OpeningPrice},
		{models.ColHighestPrice, &s.HighestPrice},
		{models.ColLowestPrice, &s.LowestPrice},
		{models.ColClosingPrice, &s.ClosingPrice},
		{models.ColSpread, &s.Spread},
		{models.ColFinalBuyingPrice, &s.FinalBuyingPrice},
		{models.ColFinalSellingPrice, &s.FinalSellingPrice},
	}
	for _, f := range floats {
		if *f.dst, err = toFloat(r[f.col]); err != nil {
			return s, fmt.Errorf("invalid %s: %w", f.col, err)
		}
	}

	return s, nil
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int64(x), nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		return fmt.Sprint(x)
	}
}
