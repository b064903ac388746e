package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/guttosm/top20pulse/config"
	"github.com/guttosm/top20pulse/internal/api"
	"github.com/guttosm/top20pulse/internal/metrics"
	"github.com/guttosm/top20pulse/internal/service"
	"github.com/guttosm/top20pulse/internal/storage"
	"github.com/guttosm/top20pulse/internal/twse"
)

// Pipeline is the wired snapshot pipeline together with the resources it owns.
type Pipeline struct {
	Service  service.SnapshotService
	Repo     storage.StockRepository
	Registry *prometheus.Registry

	ping    api.Check
	cleanup func()
}

// Close releases the pipeline resources (the database pool).
func (p *Pipeline) Close() {
	if p.cleanup != nil {
		p.cleanup()
	}
}

// NewPipeline connects to PostgreSQL and wires fetcher, loader and orchestrator.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Builds the warehouse repository for WAREHOUSE_SCHEMA.WAREHOUSE_TABLE.
//   - Builds the TWSE client, the loader and the snapshot service.
//   - Registers pipeline and runtime collectors on a fresh Prometheus registry.
//
// The caller owns the returned Pipeline and must Close it.
func NewPipeline(cfg config.Config, log zerolog.Logger) (*Pipeline, error) {
	loc, err := cfg.Source.Location()
	if err != nil {
		return nil, err
	}

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo, err := storage.NewStockRepository(db, cfg.Warehouse.Schema, cfg.Warehouse.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client := twse.NewClient(cfg.Source.URL, cfg.Source.Timeout, log.With().Str("component", "twse").Logger())
	loader := service.NewLoader(repo, log.With().Str("component", "loader").Logger(), m)
	svc := service.NewSnapshotService(client, loader, loc, log, m)

	return &Pipeline{
		Service:  svc,
		Repo:     repo,
		Registry: reg,
		ping:     db.PingContext,
		cleanup:  func() { _ = db.Close() },
	}, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Wires the pipeline via NewPipeline().
//   - Creates the destination table if missing so readiness reflects a usable warehouse.
//   - Configures the Gin router with the snapshot route, docs and metrics.
//   - Registers health and readiness probes (postgres ping, warehouse table stats).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp(cfg config.Config, log zerolog.Logger) (*gin.Engine, func(), error) {
	p, err := NewPipeline(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.Repo.EnsureTable(ctx); err != nil {
		// The loader retries on every run; the probe reports the table until then.
		log.Warn().Err(err).Str("table", p.Repo.Target()).Msg("could not ensure destination table")
	}

	router := api.NewRouter(api.NewHandler(p.Service), api.RouterOptions{
		Log:                log,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Metrics:            promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry}),
	})

	api.NewHealthHandler(map[string]api.Check{
		"postgres": p.ping,
		"warehouse_table": func(ctx context.Context) error {
			_, err := p.Repo.TableStats(ctx)
			return err
		},
	}).Register(router)

	return router, p.Close, nil
}
