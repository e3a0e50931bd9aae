package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-pool-watch/internal/decision"
	"solana-pool-watch/internal/domain"
	"solana-pool-watch/internal/execution"
	"solana-pool-watch/internal/monitor"
	"solana-pool-watch/internal/observability"
	"solana-pool-watch/internal/solana"
	"solana-pool-watch/internal/storage"
	chstore "solana-pool-watch/internal/storage/clickhouse"
	"solana-pool-watch/internal/storage/memory"
	"solana-pool-watch/internal/storage/migrations"
	pgstore "solana-pool-watch/internal/storage/postgres"
	"solana-pool-watch/internal/tokenstats"
	"solana-pool-watch/internal/wallet"
)

func main() {
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint")
	env := flag.String("env", "development", "Runtime environment: development or production")
	walletPath := flag.String("wallet", "", "Path to JSON keypair file")
	minBalanceSOL := flag.Float64("min-balance", 0.1, "Minimum wallet balance in SOL required at startup")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for the qualified event journal")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the raw notification archive")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases")
	minHolders := flag.Int("min-holders", decision.DefaultMinHolders, "Minimum holder count for qualification")
	minBuys := flag.Int("min-buys", decision.DefaultMinBuys, "Lower bound of the acceptable buy band")
	maxBuys := flag.Int("max-buys", decision.DefaultMaxBuys, "Upper bound of the acceptable buy band")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	debug := flag.Bool("debug", false, "Log environment-gate drops")

	flag.Parse()

	logger := log.New(os.Stdout, "[monitor] ", log.LstdFlags|log.Lshortfile)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err := run(ctx, logger, options{
		wsEndpoint:    *wsEndpoint,
		rpcEndpoint:   *rpcEndpoint,
		env:           *env,
		walletPath:    *walletPath,
		minBalanceSOL: *minBalanceSOL,
		postgresDSN:   *postgresDSN,
		clickhouseDSN: *clickhouseDSN,
		useMemory:     *useMemory,
		minHolders:    *minHolders,
		minBuys:       *minBuys,
		maxBuys:       *maxBuys,
		debug:         *debug,
	})

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

type options struct {
	wsEndpoint    string
	rpcEndpoint   string
	env           string
	walletPath    string
	minBalanceSOL float64
	postgresDSN   string
	clickhouseDSN string
	useMemory     bool
	minHolders    int
	minBuys       int
	maxBuys       int
	debug         bool
}

func run(ctx context.Context, logger *log.Logger, opts options) error {
	if opts.wsEndpoint == "" {
		return fmt.Errorf("--ws-endpoint is required")
	}
	if opts.rpcEndpoint == "" {
		return fmt.Errorf("--rpc-endpoint is required")
	}

	environment, err := domain.ParseEnvironment(opts.env)
	if err != nil {
		return err
	}
	logger.Printf("Runtime environment: %s", environment)

	rpc := solana.NewHTTPClient(opts.rpcEndpoint)

	// The wallet must exist and be funded before monitoring starts;
	// there is no point qualifying pools an unfunded wallet cannot act on.
	if opts.walletPath != "" {
		w, err := wallet.Load(opts.walletPath)
		if err != nil {
			return fmt.Errorf("load wallet: %w", err)
		}
		minLamports := uint64(opts.minBalanceSOL * wallet.LamportsPerSOL)
		balance, err := w.VerifyBalance(ctx, rpc, minLamports)
		if err != nil {
			return err
		}
		logger.Printf("Wallet %s funded with %d lamports", w.Address(), balance)
	}

	if !opts.useMemory && opts.postgresDSN == "" {
		return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	var journal storage.PoolEventStore = memory.NewPoolEventStore()
	var archive storage.NotificationArchive = memory.NewNotificationArchive()

	if !opts.useMemory {
		pool, err := pgstore.NewPool(ctx, opts.postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
		journal = pgstore.NewPoolEventStore(pool)

		if opts.clickhouseDSN != "" {
			conn, err := migrations.RunClickhouseMigrations(ctx, opts.clickhouseDSN)
			if err != nil {
				return fmt.Errorf("clickhouse migrations: %w", err)
			}
			defer conn.Close()

			archive = chstore.NewNotificationArchiveStore(conn)
		} else {
			logger.Println("No --clickhouse-dsn given, archiving candidates in memory only")
		}
	}

	holders := tokenstats.NewHolderAggregator(rpc, tokenstats.HolderAggregatorOptions{Logger: logger})
	buys := tokenstats.NewSignatureBuyCounter(rpc)
	evaluator := decision.NewEvaluator(decision.Criteria{
		MinHolders: opts.minHolders,
		MinBuys:    opts.minBuys,
		MaxBuys:    opts.maxBuys,
	})
	executor := execution.NewLoggingExecutor(logger)

	pipeline := monitor.NewPipeline(environment, holders, buys, evaluator, executor, monitor.PipelineOptions{
		Transactions: rpc,
		Journal:      journal,
		Archive:      archive,
		Logger:       logger,
		Debug:        opts.debug,
	})

	supervisor := monitor.NewSupervisor(opts.wsEndpoint, monitor.DefaultMentions(), pipeline, monitor.SupervisorOptions{
		Logger: logger,
	})

	logger.Println("Starting pool monitoring...")
	return supervisor.Run(ctx)
}
