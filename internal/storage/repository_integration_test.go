//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "top20pulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=top20pulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "top20pulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func TestStockRepository_AppendOnly(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo, err := NewStockRepository(db, "public", "daily_top20_stocks")
	if err != nil {
		t.Fatalf("repo: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	// A rerun appends again; duplicates are expected.
	for i := 0; i < 2; i++ {
		if err := repo.AppendStockRows(ctx, sampleRows()); err != nil {
			t.Fatalf("AppendStockRows #%d: %v", i+1, err)
		}
	}
	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable on existing table: %v", err)
	}

	st, err := repo.TableStats(ctx)
	if err != nil {
		t.Fatalf("TableStats: %v", err)
	}
	if st.Rows != 4 || st.Columns != len(stockColumns) {
		t.Fatalf("unexpected stats: %+v", st)
	}

	var id, direction string
	var day time.Time
	err = db.QueryRow(`SELECT stock_id, ups_or_downs, trade_date FROM daily_top20_stocks WHERE ranking = 2 LIMIT 1`).Scan(&id, &direction, &day)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if id != "0050" || direction != "X" || day.Format("2006-01-02") != "2026-10-14" {
		t.Fatalf("unexpected row: id=%q direction=%q day=%v", id, direction, day)
	}
}
