package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/config"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/ical"
	appLog "github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/log"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/store"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	appLog.Info("groupcal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	appLog.SetLevel(appLog.Level(conf.LogLevel))

	appLog.Info("effective config",
		"listen", conf.Listen,
		"storage_path", conf.StoragePath,
		"refresh", conf.RefreshCron,
		"subscription_count", len(conf.Subscriptions),
		"once", flags.once,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	fetcher := ical.NewFetcher(ical.NewParser(nil), time.Duration(conf.FetchTimeoutSeconds)*time.Second)
	st := store.New(conf.StoragePath)

	server, err := web.NewServer(conf, st, fetcher)
	if err != nil {
		appLog.Error("failed to initialize server", err)
		os.Exit(1)
	}

	if flags.once {
		server.RefreshSubscriptions(ctx)
		server.Shutdown()
		appLog.Info("groupcal exiting")
		return
	}

	var scheduler *cron.Cron
	if conf.RefreshCron != "" && len(conf.Subscriptions) > 0 {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(conf.RefreshCron, func() {
			server.RefreshSubscriptions(ctx)
		}); err != nil {
			appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
			os.Exit(1)
		}
		scheduler.Start()
	}

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
	server.Shutdown()

	appLog.Info("groupcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one subscription refresh and exit")

	flag.Parse()

	return cfg
}
