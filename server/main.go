package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"blackjack-arena/server/config"
	"blackjack-arena/server/game"
	"blackjack-arena/server/store"
)

var cli struct {
	Addr    string `help:"Listen address." default:"" env:"ADDR"`
	Config  string `help:"Table rules HCL file." optional:"" env:"TABLE_CONFIG"`
	Migrate bool   `help:"Run schema migration and exit."`
	Debug   bool   `help:"Enable debug logging." env:"DEBUG"`
}

func main() {
	_ = godotenv.Load()
	kong.Parse(&cli,
		kong.Name("blackjack-arena"),
		kong.Description("Single-table blackjack server."),
	)

	level := log.InfoLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	cfg, err := config.Load(cli.Config)
	if err != nil {
		logger.Fatal("loading config", "error", err)
	}
	if cli.Addr != "" {
		cfg.Addr = cli.Addr
	}

	if err := config.MustEnv("DATABASE_URL"); err != nil {
		logger.Fatal(err.Error())
	}
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("opening database", "error", err)
	}
	defer db.Close(context.Background())

	if cli.Migrate || cfg.AutoMigrate {
		if err := store.Migrate(context.Background(), db); err != nil {
			logger.Fatal("migrate failed", "error", err)
		}
		logger.Info("schema migrated")
		if cli.Migrate {
			return
		}
	}

	svc := game.New(db, cfg, logger)
	metrics := NewMetrics()
	hub := NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Router(db, svc, cfg, metrics, hub, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr,
			"min_bet", cfg.Table.MinBet, "max_bet", cfg.Table.MaxBet)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}
}
