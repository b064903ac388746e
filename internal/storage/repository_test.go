package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/top20pulse/internal/domain/models"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

func newMockRepo(t *testing.T) (*stockRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &stockRepository{db: db, schema: "public", table: "daily_top20_stocks"}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

func sampleRows() []models.StockRow {
	d := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	return []models.StockRow{
		{Rank: 1, StockID: "2330", StockName: "TSMC", SharesTraded: 52384175, OrdersTraded: 40843, ClosingPrice: 1030, Direction: "+", TradeDate: d},
		{Rank: 2, StockID: "0050", StockName: "ETF", SharesTraded: 1000, OrdersTraded: 10, ClosingPrice: 150.5, Direction: "X", TradeDate: d},
	}
}

func TestNewStockRepository_Identifiers(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	cases := []struct {
		name    string
		schema  string
		table   string
		wantErr bool
	}{
		{name: "ok", schema: "public", table: "daily_top20_stocks"},
		{name: "empty schema defaults", schema: "", table: "daily_top20_stocks"},
		{name: "injection in table", schema: "public", table: "x; DROP TABLE y", wantErr: true},
		{name: "empty table", schema: "public", table: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewStockRepository(db, tc.schema, tc.table)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidIdentifier) {
					t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
				}
				return
			}
			if err != nil || r == nil {
				t.Fatalf("unexpected r=%v err=%v", r, err)
			}
			if r.Target() != "public.daily_top20_stocks" {
				t.Fatalf("target %q", r.Target())
			}
		})
	}
}

func TestCreateTableSQL_DeclaresAndInfersTypes(t *testing.T) {
	repo, _, done := newMockRepo(t)
	defer done()

	ddl := repo.createTableSQL()
	want := []string{
		`CREATE TABLE IF NOT EXISTS "public"."daily_top20_stocks" (`,
		"ranking BIGINT",
		"stock_id TEXT",
		"stock_name TEXT",
		"shares_traded BIGINT",
		"closing_price DOUBLE PRECISION",
		"ups_or_downs TEXT",
		"trade_date DATE",
	}
	for _, w := range want {
		if !strings.Contains(ddl, w) {
			t.Fatalf("ddl %q does not contain %q", ddl, w)
		}
	}
	if n := strings.Count(ddl, ","); n != len(stockColumns)-1 {
		t.Fatalf("expected %d columns, ddl=%q", len(stockColumns), ddl)
	}
}

func TestEnsureTable_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(repo.createTableSQL())).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.EnsureTable(context.Background()); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS")).WillReturnError(dummyErr{})
	if err := repo.EnsureTable(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAppendStockRows_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	// pq.CopyIn is driver specific; sqlmock only sees PREPARE + EXECs.
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0)) // final Exec()
	mock.ExpectCommit()

	if err := repo.AppendStockRows(context.Background(), sampleRows()); err != nil {
		t.Fatalf("AppendStockRows: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAppendStockRows_Errors(t *testing.T) {
	cases := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "begin",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(dummyErr{})
			},
		},
		{
			name: "row exec",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
				prep := mock.ExpectPrepare(".*")
				prep.ExpectExec().WillReturnError(dummyErr{})
				mock.ExpectRollback()
			},
		},
		{
			name: "final exec",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
				prep := mock.ExpectPrepare(".*")
				prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
				prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(".*").WillReturnError(dummyErr{})
				mock.ExpectRollback()
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, done := newMockRepo(t)
			defer done()
			tc.setup(mock)
			if err := repo.AppendStockRows(context.Background(), sampleRows()); err == nil {
				t.Fatalf("expected error on %s", tc.name)
			}
		})
	}
}

func TestTableStats_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "public"."daily_top20_stocks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(40)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2")).
		WithArgs("public", "daily_top20_stocks").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	st, err := repo.TableStats(context.Background())
	if err != nil {
		t.Fatalf("TableStats: %v", err)
	}
	if st.Rows != 40 || st.Columns != 14 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM`)).WillReturnError(dummyErr{})
	if _, err := repo.TableStats(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
