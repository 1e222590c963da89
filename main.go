// ChessDuel - watch two chess engines play each other in the browser
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessduel/internal/config"
	"github.com/hailam/chessduel/internal/server"
	"github.com/hailam/chessduel/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var (
	configPath = flag.String("config", "", "YAML configuration file")
	addr       = flag.String("addr", "", "listen address (overrides the config)")
	record     = flag.Bool("record", false, "store finished games in the match database")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *record {
		cfg.Record = true
	}
	logger := cfg.SetupLogging()
	gin.SetMode(gin.ReleaseMode)

	if err := serve(cfg, logger); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

// serve runs the web front end until interrupted.
func serve(cfg *config.Config, logger zerolog.Logger) error {
	var store *storage.Storage
	if cfg.Record {
		var err error
		if cfg.DataDir == "" {
			store, err = storage.NewStorage()
		} else {
			store, err = storage.Open(cfg.DataDir)
		}
		if err != nil {
			return fmt.Errorf("could not open match database: %w", err)
		}
		defer store.Close()
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Msgf("Listening on %s", cfg.Server.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-shutdownDone
	return nil
}
