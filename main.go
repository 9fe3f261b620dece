package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/audsmash/cliparse"
	"github.com/danielhkuo/audsmash/db"
	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/jobs"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/router"
	"github.com/danielhkuo/audsmash/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn.DB); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	st := store.New(dbConn, store.WithCalendar(cfg.Calendar()))
	hub := events.NewHub()

	// Fan events out across instances when Redis is configured
	var pub events.Publisher = hub
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		bus := events.NewRedisBus(client, events.DefaultChannel, hub)
		if err := bus.Ping(ctx); err != nil {
			slog.Error("redis ping failed", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := bus.Run(ctx); err != nil {
				slog.Error("event relay stopped", "error", err)
			}
		}()
		pub = bus
	}

	// Periodic weekly totals refresh
	scheduler := jobs.NewScheduler(st, cfg.Calendar(), cfg.TotalsSchedule)
	if err := scheduler.Start(); err != nil {
		slog.Error("scheduler failed to start", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()
	if err := scheduler.RunNow(ctx); err != nil {
		slog.Warn("initial totals refresh failed", "error", err)
	}

	// Live websockets are hijacked and end on their own context
	liveCtx, closeLive := context.WithCancel(context.Background())
	defer closeLive()

	// Create router
	mux := router.NewRouter(liveCtx, st, cfg, hub, pub)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}
	server.RegisterOnShutdown(closeLive)

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "timezone", cfg.Calendar().Location.String())
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
