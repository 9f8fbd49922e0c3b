package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"bookstore-fulfillment/internal/app"
	"bookstore-fulfillment/internal/config"
	"bookstore-fulfillment/internal/middleware"
	httptransport "bookstore-fulfillment/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run loads configuration, wires the application, and serves the API.
// All /api/ routes sit behind request logging, API-key auth, and
// per-key rate limiting; /health stays open.
func run() error {
	cfg, err := config.Load(os.Getenv("BOOKSTORE_CONFIG"))
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	h := httptransport.New(a.Catalog, a.Orders, a.Deliveries, a.Flow, cfg.RequestTimeout, logger.Named("http"))

	api := http.NewServeMux()
	h.Register(api)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	var protected http.Handler = api
	protected = middleware.APIKeyAuth(cfg.APIKeys)(protected)
	protected = limiter.Middleware(protected)
	protected = middleware.Logging(logger.Named("access"))(protected)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("/api/", protected)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("listening",
		zap.String("addr", srv.Addr),
		zap.String("storage", cfg.StorageBackend),
		zap.String("data_dir", cfg.DataDir),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
