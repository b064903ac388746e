package models

import "time"

// Column names of the TWSE MI_INDEX20 payload, in the positional order the
// exchange sends them.
const (
	ColRank              = "Rank"
	ColStockID           = "StockID"
	ColStockName         = "StockName"
	ColSharesTraded      = "SharesTraded"
	ColOrdersTraded      = "OrdersTraded"
	ColOpeningPrice      = "OpeningPrice"
	ColHighestPrice      = "HighestPrice"
	ColLowestPrice       = "LowestPrice"
	ColClosingPrice      = "ClosingPrice"
	ColUpsOrDowns        = "UpsOrDowns"
	ColSpread            = "Spread"
	ColFinalBuyingPrice  = "FinalBuyingPrice"
	ColFinalSellingPrice = "FinalSellingPrice"
)

// Columns is the fixed 13-column layout of one exchange row.
var Columns = []string{
	ColRank,
	ColStockID,
	ColStockName,
	ColSharesTraded,
	ColOrdersTraded,
	ColOpeningPrice,
	ColHighestPrice,
	ColLowestPrice,
	ColClosingPrice,
	ColUpsOrDowns,
	ColSpread,
	ColFinalBuyingPrice,
	ColFinalSellingPrice,
}

// MaxBatchSize is the number of rows the top-20 report can hold.
const MaxBatchSize = 20

// RawRow is one exchange row keyed by column name. Values are whatever the JSON
// decoder produced, normally strings.
type RawRow map[string]any

// StockRow represents one exchange-reported record for one stock on one trading day.
//
// Field order follows the exchange layout, with TradeDate appended.
type StockRow struct {
	Rank              int
	StockID           string
	StockName         string
	SharesTraded      int64
	OrdersTraded      int64
	OpeningPrice      float64
	HighestPrice      float64
	LowestPrice       float64
	ClosingPrice      float64
	Direction         string // "+", "-", "X" or ""
	Spread            float64
	FinalBuyingPrice  float64
	FinalSellingPrice float64
	TradeDate         time.Time
}
