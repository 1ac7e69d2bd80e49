// Package main runs the LiquidChecker dashboard service: the JSON API,
// the engagement stores, the wallet provider bridge and the scheduled
// market-stats snapshotter.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"liquidchecker/internal/engagement"
	"liquidchecker/internal/liquidlaunch"
	"liquidchecker/internal/server"
	"liquidchecker/internal/snapshot"
	"liquidchecker/internal/storage"
	chstore "liquidchecker/internal/storage/clickhouse"
	"liquidchecker/internal/storage/memory"
	"liquidchecker/internal/storage/migrations"
	pgstore "liquidchecker/internal/storage/postgres"
	"liquidchecker/internal/wallet"
)

// stores holds the storage implementations behind the service.
type stores struct {
	comments  storage.CommentStore
	votes     storage.VoteStore
	snapshots storage.SnapshotStore
}

func main() {
	// Load .env if present; system env vars win.
	_ = godotenv.Load()

	apiBaseURL := flag.String("api-base-url", envOr("LIQUIDLAUNCH_API_URL", "https://api.liquidlaunch.app"), "LiquidLaunch API base URL")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	providerWS := flag.String("provider-ws-endpoint", os.Getenv("WALLET_PROVIDER_WS"), "Wallet provider bridge WebSocket endpoint (optional)")
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "Dashboard API listen address")
	snapshotSchedule := flag.String("snapshot-schedule", envOr("SNAPSHOT_SCHEDULE", "@every 5m"), "Market stats snapshot cron schedule")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		log.Fatal().Msg("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	client := liquidlaunch.NewClient(*apiBaseURL)
	engage := engagement.NewService(st.comments, st.votes, log)
	session := wallet.NewSession()

	var connector server.Connector
	if *providerWS != "" {
		provider, err := wallet.NewProvider(ctx, *providerWS, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("connect wallet provider")
		}
		defer provider.Close()

		wc := wallet.NewConnector(provider, session)
		connector = wc

		// Pick up a previously authorized account without prompting.
		if addr, err := wc.Resume(ctx); err == nil {
			log.Info().Str("wallet", addr).Msg("wallet session resumed")
		}
	} else {
		log.Info().Msg("no wallet provider configured, running read-only")
	}

	snapshotter := snapshot.New(client, st.snapshots, *snapshotSchedule, log)
	if err := snapshotter.Start(); err != nil {
		log.Fatal().Err(err).Msg("start snapshotter")
	}
	defer snapshotter.Stop()

	srv := server.New(server.Config{
		Lister:    client,
		Engage:    engage,
		Session:   session,
		Connector: connector,
		Snapshots: st.snapshots,
		Log:       log,
	})

	// Handle shutdown signals; a second signal forces exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()

		select {
		case sig := <-sigCh:
			log.Warn().Str("signal", sig.String()).Msg("forcing immediate shutdown")
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn().Msg("graceful shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}()

	if err := srv.Run(ctx, *listenAddr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("shutdown complete")
}

// createStores builds the storage layer and runs migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*stores, func(), error) {
	if useMemory {
		st := &stores{
			comments:  memory.NewCommentStore(),
			votes:     memory.NewVoteStore(),
			snapshots: memory.NewSnapshotStore(),
		}
		return st, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
		chConn.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	st := &stores{
		comments:  pgstore.NewCommentStore(pool),
		votes:     pgstore.NewVoteStore(pool),
		snapshots: chstore.NewSnapshotStore(chConn),
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return st, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
