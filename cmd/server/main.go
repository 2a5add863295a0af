package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listing-insights/internal/config"
	"listing-insights/internal/metrics"
	"listing-insights/internal/server"
	"listing-insights/internal/translate"
	"listing-insights/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("LISTING_CONFIG"), "YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	l := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	m := metrics.New()

	backend, err := translate.New(translate.Config{
		Backend:       cfg.Translator.Backend,
		DeepLAuthKey:  cfg.Translator.DeepLAuthKey,
		DeepLBaseURL:  cfg.Translator.DeepLBaseURL,
		LingvaBaseURL: cfg.Translator.LingvaBaseURL,
		Timeout:       cfg.Translator.Timeout,
	}, l)
	if err != nil {
		l.Warnf("translation disabled, glossary only: %v", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(cfg, backend, l, m).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		l.Infof("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Errorf("shutdown: %v", err)
	}
	l.Infof("bye")
}
