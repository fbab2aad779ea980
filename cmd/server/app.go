package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/fintrack/internal/adapter/http"
	"github.com/iho/fintrack/internal/adapter/http/handler"
	"github.com/iho/fintrack/internal/adapter/http/middleware"
	"github.com/iho/fintrack/internal/adapter/idgen"
	"github.com/iho/fintrack/internal/adapter/notifier"
	memoryRepo "github.com/iho/fintrack/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/fintrack/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/fintrack/internal/adapter/repository/redis"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/infrastructure/redis"
	"github.com/iho/fintrack/internal/usecase"
)

// app is the wired server process.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	registry  *prometheus.Registry
	ledger    *usecase.Ledger
	recurring *usecase.RecurringUseCase
	handler   http.Handler
	closers   []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (a *app, err error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	a = &app{cfg: cfg, logger: logger, registry: registry}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	checks := map[string]handler.Pinger{}

	var redisClient *goredis.Client
	if cfg.StoreBackend == config.StoreRedis || cfg.IdempotencyEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		logger.Info().Msg("connected to redis")
	}

	store, err := a.openStore(ctx, redisClient, checks, m)
	if err != nil {
		return nil, err
	}

	ledger := usecase.NewLedger(store, cfg.SnapshotKey, idgen.NewULIDGenerator(), usecase.SystemClock{}, logger, m)
	if err := ledger.Load(ctx, cfg.DefaultCurrency); err != nil {
		return nil, err
	}
	a.ledger = ledger

	var billNotifier usecase.Notifier = notifier.NewLogNotifier(logger)
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notifier.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return nil, fmt.Errorf("connect amqp: %w", err)
		}
		a.closers = append(a.closers, func() { _ = amqpNotifier.Close() })
		billNotifier = amqpNotifier
		logger.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing bill reminders to amqp")
	}

	a.recurring = usecase.NewRecurringUseCase(ledger)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(usecase.NewAccountUseCase(ledger)),
		TransactionHandler: handler.NewTransactionHandler(usecase.NewTransactionUseCase(ledger)),
		RecurringHandler:   handler.NewRecurringHandler(a.recurring),
		BudgetHandler:      handler.NewBudgetHandler(usecase.NewBudgetUseCase(ledger)),
		DebtHandler:        handler.NewDebtHandler(usecase.NewDebtUseCase(ledger)),
		SavingsHandler:     handler.NewSavingsHandler(usecase.NewSavingsUseCase(ledger)),
		BillHandler:        handler.NewBillHandler(usecase.NewBillUseCase(ledger, billNotifier)),
		SplitHandler:       handler.NewSplitHandler(usecase.NewSplitUseCase(ledger)),
		DataHandler:        handler.NewDataHandler(usecase.NewDataUseCase(ledger)),
		LedgerHandler:      handler.NewLedgerHandler(usecase.NewReconciliationUseCase(ledger)),
		HealthHandler:      handler.NewHealthHandler(checks),
		Logger:             logger,
		Metrics:            m,
		Gatherer:           registry,
	}
	if cfg.IdempotencyEnabled {
		store := redisRepo.NewIdempotencyStore(redisClient)
		routerCfg.Idempotency = middleware.NewIdempotencyMiddleware(store, cfg.IdempotencyTTL, logger, m)
	}
	a.handler = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

func (a *app) openStore(ctx context.Context, redisClient *goredis.Client, checks map[string]handler.Pinger, m *metrics.Metrics) (usecase.SnapshotStore, error) {
	cfg := a.cfg

	switch cfg.StoreBackend {
	case config.StoreMemory:
		a.logger.Warn().Msg("using in-memory snapshot store, data is lost on restart")
		return memoryRepo.NewSnapshotStore(), nil

	case config.StoreRedis:
		return redisRepo.NewSnapshotStore(redisClient, m), nil

	case config.StorePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()

		pool, err := postgres.Connect(connectCtx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		checks["postgres"] = pool
		a.logger.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, a.logger); err != nil {
			return nil, err
		}
		return postgresRepo.NewSnapshotStore(pool, a.logger, m).WithHistoryLimit(cfg.HistoryLimit), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// run serves HTTP and drives the recurring scheduler until ctx is cancelled.
func (a *app) run(ctx context.Context) error {
	server := &http.Server{
		Addr:         ":" + a.cfg.HTTPPort,
		Handler:      a.handler,
		ReadTimeout:  a.cfg.HTTPReadTimeout,
		WriteTimeout: a.cfg.HTTPWriteTimeout,
		IdleTimeout:  a.cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("port", a.cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.runScheduler(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runScheduler processes due recurring templates at startup and then on every tick.
func (a *app) runScheduler(ctx context.Context) {
	if a.cfg.RecurringInterval <= 0 {
		return
	}

	ticker := time.NewTicker(a.cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		a.processRecurring(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *app) processRecurring(ctx context.Context) {
	generated, err := a.recurring.ProcessRecurring(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("recurring processing failed")
		return
	}
	if len(generated) > 0 {
		a.logger.Info().Int("generated", len(generated)).Msg("recurring transactions generated")
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
