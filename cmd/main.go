package main

//
//  @title           top20pulse API
//  @version         1.0
//  @description     Daily TWSE top-20 traded stocks snapshot pipeline.
//  @termsOfService  https://github.com/guttosm/top20pulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/top20pulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:9000
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        snapshot
//  @tag.description Triggers the fetch, transform and load pipeline
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // Asia/Taipei on minimal images

	"github.com/rs/zerolog"

	"github.com/guttosm/top20pulse/config"
	_ "github.com/guttosm/top20pulse/docs" // swagger docs
	"github.com/guttosm/top20pulse/internal/app"
	"github.com/guttosm/top20pulse/internal/domain/dto"
	"github.com/guttosm/top20pulse/internal/logger"
	"github.com/guttosm/top20pulse/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//   - log (zerolog.Logger): process logger.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string, log zerolog.Logger) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// A run may take up to the router's 60s request timeout.
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
//   - log (zerolog.Logger): process logger.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func(), log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	log.Info().Msg("server exited gracefully")
}

// runOnce executes the pipeline a single time, writes the response body to out
// and returns the process exit code (0 for status 200, 1 otherwise).
func runOnce(ctx context.Context, svc service.SnapshotService, out io.Writer, log zerolog.Logger) int {
	res := svc.Run(ctx)
	body := dto.RunResponse{AccessStockData: res.AccessStockData, LoadDataToBQ: res.LoadDataToBQ}
	if err := json.NewEncoder(out).Encode(body); err != nil {
		log.Error().Err(err).Msg("could not write result")
		return 1
	}
	log.Info().Int("status_code", res.StatusCode).Msg("run finished")
	if res.StatusCode != service.StatusNominal {
		return 1
	}
	return 0
}

// main is the entry point of the top20pulse application.
//
// Modes (selected via --mode flag):
//   - api: Starts the HTTP server; GET / runs the pipeline once per request.
//   - run: Runs the pipeline once, prints the JSON result and exits.
//
// Flags:
//   - --mode:    Execution mode ("api" or "run"). Default: "api".
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --timeout: Upper bound of a single run in "run" mode. Default: 60s.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Name: cfg.Log.Name})

	mode := flag.String("mode", "api", "Mode: api or run")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	timeout := flag.Duration("timeout", 60*time.Second, "Upper bound of a single run in run mode")
	flag.Parse()

	switch *mode {
	case "run":
		p, err := app.NewPipeline(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("pipeline init error")
		}
		runCtx, cancel := context.WithTimeout(ctx, *timeout)
		code := runOnce(runCtx, p.Service, os.Stdout, log)
		cancel()
		p.Close()
		os.Exit(code)

	case "api":
		log.Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port, log)
		gracefulShutdown(ctx, server, cleanup, log)

	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
