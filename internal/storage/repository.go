package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/top20pulse/internal/domain/models"
)

// ErrInvalidIdentifier is returned for schema or table names that are not plain SQL identifiers.
var ErrInvalidIdentifier = errors.New("invalid SQL identifier")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TableStats describes the destination table after a load.
type TableStats struct {
	Rows    int64
	Columns int
}

// StockRepository defines contract for warehouse operations.
// Writes are append-only; nothing here updates or deletes rows.
type StockRepository interface {
	EnsureTable(ctx context.Context) error
	AppendStockRows(ctx context.Context, rows []models.StockRow) error
	TableStats(ctx context.Context) (TableStats, error)
	Target() string
}

type stockRepository struct {
	db     *sql.DB
	schema string
	table  string
}

// NewStockRepository returns a repository writing to schema.table.
func NewStockRepository(db *sql.DB, schema, table string) (StockRepository, error) {
	if schema == "" {
		schema = "public"
	}
	for _, id := range []string{schema, table} {
		if !identifier.MatchString(id) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
		}
	}
	return &stockRepository{db: db, schema: schema, table: table}, nil
}

// column maps one StockRow field to a warehouse column. An empty sqlType means
// the type is inferred from the Go value.
type column struct {
	name    string
	sqlType string
	value   func(r models.StockRow) any
}

// stockColumns is the destination layout. stock_id, stock_name and ups_or_downs
// are declared TEXT explicitly; the rest follow their Go types.
var stockColumns = []column{
	{name: "ranking", value: func(r models.StockRow) any { return r.Rank }},
	{name: "stock_id", sqlType: "TEXT", value: func(r models.StockRow) any { return r.StockID }},
	{name: "stock_name", sqlType: "TEXT", value: func(r models.StockRow) any { return r.StockName }},
	{name: "shares_traded", value: func(r models.StockRow) any { return r.SharesTraded }},
	{name: "orders_traded", value: func(r models.StockRow) any { return r.OrdersTraded }},
	{name: "opening_price", value: func(r models.StockRow) any { return r.OpeningPrice }},
	{name: "highest_price", value: func(r models.StockRow) any { return r.HighestPrice }},
	{name: "lowest_price", value: func(r models.StockRow) any { return r.LowestPrice }},
	{name: "closing_price", value: func(r models.StockRow) any { return r.ClosingPrice }},
	{name: "ups_or_downs", sqlType: "TEXT", value: func(r models.StockRow) any { return r.Direction }},
	{name: "spread", value: func(r models.StockRow) any { return r.Spread }},
	{name: "final_buying_price", value: func(r models.StockRow) any { return r.FinalBuyingPrice }},
	{name: "final_selling_price", value: func(r models.StockRow) any { return r.FinalSellingPrice }},
	{name: "trade_date", value: func(r models.StockRow) any { return r.TradeDate }},
}

func inferSQLType(v any) string {
	switch v.(type) {
	case int, int32, int64:
		return "BIGINT"
	case float32, float64:
		return "DOUBLE PRECISION"
	case time.Time:
		return "DATE"
	default:
		return "TEXT"
	}
}

func (c column) typeName() string {
	if c.sqlType != "" {
		return c.sqlType
	}
	return inferSQLType(c.value(models.StockRow{}))
}

// copyValue adapts a column value to what the COPY text format should carry.
func copyValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return v
}

func (r *stockRepository) qualified() string {
	return pq.QuoteIdentifier(r.schema) + "." + pq.QuoteIdentifier(r.table)
}

// Target returns "schema.table".
func (r *stockRepository) Target() string {
	return r.schema + "." + r.table
}

// createTableSQL renders the DDL for the destination table.
func (r *stockRepository) createTableSQL() string {
	defs := make([]string, 0, len(stockColumns))
	for _, c := range stockColumns {
		defs = append(defs, c.name+" "+c.typeName())
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", r.qualified(), strings.Join(defs, ", "))
}

// EnsureTable creates the destination table when it does not exist yet.
func (r *stockRepository) EnsureTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.createTableSQL()); err != nil {
		return fmt.Errorf("ensure table %s: %w", r.Target(), err)
	}
	return nil
}

// AppendStockRows appends rows with COPY in a single transaction.
func (r *stockRepository) AppendStockRows(ctx context.Context, rows []models.StockRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	names := make([]string, len(stockColumns))
	for i, c := range stockColumns {
		names[i] = c.name
	}
	stmt, err := tx.PrepareContext(ctx, pq.CopyInSchema(r.schema, r.table, names...))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, row := range rows {
		args := make([]any, len(stockColumns))
		for i, c := range stockColumns {
			args[i] = copyValue(c.value(row))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// TableStats returns the destination table's total rows and column count.
func (r *stockRepository) TableStats(ctx context.Context) (TableStats, error) {
	var st TableStats
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.qualified()).Scan(&st.Rows); err != nil {
		return st, fmt.Errorf("count rows: %w", err)
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2`,
		r.schema, r.table,
	).Scan(&st.Columns)
	if err != nil {
		return st, fmt.Errorf("count columns: %w", err)
	}
	return st, nil
}
