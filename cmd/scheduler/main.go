package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/allocation"
	"github.com/goodnatureofminers/tideshash-backend/internal/blocksignal"
	"github.com/goodnatureofminers/tideshash-backend/internal/metrics"
	"github.com/goodnatureofminers/tideshash-backend/internal/proxy"
	"github.com/goodnatureofminers/tideshash-backend/internal/retry"
	"github.com/goodnatureofminers/tideshash-backend/internal/scheduler"
	"github.com/goodnatureofminers/tideshash-backend/internal/stake"
	"github.com/goodnatureofminers/tideshash-backend/internal/storage/kv"
	"github.com/goodnatureofminers/tideshash-backend/internal/transport"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	CycleLength    uint64        `long:"cycle-length" env:"SCHEDULER_CYCLE_LENGTH" description:"blocks per evaluation cycle" default:"720"`
	MinBlocks      uint64        `long:"min-blocks-per-authority" env:"SCHEDULER_MIN_BLOCKS_PER_AUTHORITY" description:"minimum blocks per selected authority" default:"40"`
	MinStakeFloor  string        `long:"min-stake-floor" env:"SCHEDULER_MIN_STAKE_FLOOR" description:"stake below which authorities are ignored" default:"12000"`
	MaxAuthorities int           `long:"max-authorities" env:"SCHEDULER_MAX_AUTHORITIES" description:"authorities kept per cycle, 0 for unlimited" default:"0"`
	MaxPerSlot     int           `long:"max-authorities-per-slot" env:"SCHEDULER_MAX_AUTHORITIES_PER_SLOT" description:"authorities sharing a multi_pool slot" default:"3"`
	MinSlotSize    uint64        `long:"min-slot-size" env:"SCHEDULER_MIN_SLOT_SIZE" description:"minimum multi_pool slot size in blocks" default:"120"`
	Strategy       string        `long:"strategy" env:"SCHEDULER_STRATEGY" description:"allocation strategy" default:"stake_based" choice:"stake_based" choice:"equal" choice:"multi_pool"`
	Blacklist      []string      `long:"blacklist" env:"SCHEDULER_BLACKLIST" env-delim:"," description:"authority ids never scheduled"`
	StakeURL       string        `long:"stake-url" env:"SCHEDULER_STAKE_URL" description:"stake feed base URL" required:"true"`
	StakeTimeout   time.Duration `long:"stake-timeout" env:"SCHEDULER_STAKE_TIMEOUT" description:"stake feed request timeout" default:"10s"`
	HeightMode     string        `long:"height-mode" env:"SCHEDULER_HEIGHT_MODE" description:"height source" default:"feed" choice:"feed" choice:"clock"`
	Genesis        string        `long:"genesis" env:"SCHEDULER_GENESIS" description:"RFC3339 time of height 0 for the clock height source"`
	BlockTime      time.Duration `long:"block-time" env:"SCHEDULER_BLOCK_TIME" description:"block interval for the clock height source" default:"12s"`
	ProxyURLs      []string      `long:"proxy-url" env:"SCHEDULER_PROXY_URLS" env-delim:"," description:"mining proxy control URL, repeatable" required:"true"`
	WorkerUser     string        `long:"worker-user" env:"SCHEDULER_WORKER_USER" description:"pool username used when a descriptor has none"`
	KVPath         string        `long:"kv-path" env:"SCHEDULER_KV_PATH" description:"state store directory" default:"data/scheduler"`
	StateTTL       time.Duration `long:"state-ttl" env:"SCHEDULER_STATE_TTL" description:"lifetime of persisted scheduler state" default:"48h"`
	CacheTTL       time.Duration `long:"descriptor-cache-ttl" env:"SCHEDULER_DESCRIPTOR_CACHE_TTL" description:"lifetime of decoded commitments" default:"1h"`
	RetryAttempts  uint64        `long:"retry-attempts" env:"SCHEDULER_RETRY_ATTEMPTS" description:"attempts per collaborator call" default:"5"`
	RetryInitial   time.Duration `long:"retry-initial-interval" env:"SCHEDULER_RETRY_INITIAL_INTERVAL" description:"first backoff interval" default:"1s"`
	RetryMax       time.Duration `long:"retry-max-interval" env:"SCHEDULER_RETRY_MAX_INTERVAL" description:"backoff interval cap" default:"30s"`
	PushTimeout    time.Duration `long:"push-timeout" env:"SCHEDULER_PUSH_TIMEOUT" description:"proxy push timeout" default:"10s"`
	TickInterval   time.Duration `long:"tick-interval" env:"SCHEDULER_TICK_INTERVAL" description:"height poll interval" default:"12s"`
	ZMQAddr        string        `long:"zmq-addr" env:"SCHEDULER_ZMQ_ADDR" description:"bitcoind zmqpubhashblock address (zmq builds only)"`
	RestAddr       string        `long:"rest-addr" env:"SCHEDULER_REST_ADDR" description:"REST listen address" default:":8002"`
	MetricsAddr    string        `long:"metrics-addr" env:"SCHEDULER_METRICS_ADDR" description:"address for metrics server" default:":2113"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("hashrate scheduler failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	logger = logger.With(zap.String("strategy", cfg.Strategy))
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	planner, err := newPlanner(cfg)
	if err != nil {
		return fmt.Errorf("init planner: %w", err)
	}

	store, err := kv.Open(cfg.KVPath, metrics.NewKVStore())
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close state store", zap.Error(err))
		}
	}()

	stakes, err := stake.NewClient(stake.Config{
		BaseURL:  cfg.StakeURL,
		Timeout:  cfg.StakeTimeout,
		CacheTTL: cfg.CacheTTL,
	}, metrics.NewStakeFeed(), logger)
	if err != nil {
		return fmt.Errorf("init stake client: %w", err)
	}
	heights, err := newHeightSource(cfg, stakes)
	if err != nil {
		return fmt.Errorf("init height source: %w", err)
	}

	proxyMetrics := metrics.NewProxyClient()
	controllers := make([]proxy.Controller, 0, len(cfg.ProxyURLs))
	for _, u := range cfg.ProxyURLs {
		c, err := proxy.NewClient(proxy.Config{
			BaseURL:     u,
			Timeout:     cfg.PushTimeout,
			DefaultUser: cfg.WorkerUser,
		}, proxyMetrics, logger)
		if err != nil {
			return fmt.Errorf("init proxy client %s: %w", u, err)
		}
		controllers = append(controllers, c)
	}
	proxies, err := proxy.NewFanout(controllers...)
	if err != nil {
		return fmt.Errorf("init proxy fanout: %w", err)
	}

	trigger, err := blocksignal.Start(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}

	sched, err := scheduler.New(
		stakes,
		heights,
		planner,
		proxies,
		store,
		metrics.NewScheduler(),
		scheduler.Config{
			Retry: retry.Policy{
				InitialInterval: cfg.RetryInitial,
				MaxInterval:     cfg.RetryMax,
				MaxAttempts:     cfg.RetryAttempts,
			},
			PushTimeout:  cfg.PushTimeout,
			TickInterval: cfg.TickInterval,
			StateTTL:     cfg.StateTTL,
		},
		logger.Named("scheduler"),
		trigger,
	)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	gw := gwruntime.NewServeMux()
	if err := transport.RegisterSchedulerRoutes(gw, sched); err != nil {
		return fmt.Errorf("register scheduler routes: %w", err)
	}
	restServer := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           cors.Default().Handler(gw),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting HTTP server", zap.String("addr", cfg.RestAddr))
		if err := restServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return restServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newPlanner(cfg config) (*allocation.Planner, error) {
	strategy, err := allocation.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	floor, err := decimal.NewFromString(cfg.MinStakeFloor)
	if err != nil {
		return nil, fmt.Errorf("parse min stake floor: %w", err)
	}
	return allocation.NewPlanner(strategy, allocation.Params{
		CycleLength:           cfg.CycleLength,
		MinBlocksPerAuthority: cfg.MinBlocks,
		MinStakeFloor:         floor,
		MaxAuthorities:        cfg.MaxAuthorities,
		MaxAuthoritiesPerSlot: cfg.MaxPerSlot,
		MinSlotSize:           cfg.MinSlotSize,
		Blacklist:             cfg.Blacklist,
	})
}

func newHeightSource(cfg config, feed *stake.Client) (scheduler.HeightSource, error) {
	if cfg.HeightMode != "clock" {
		return feed, nil
	}
	if cfg.Genesis == "" {
		return nil, errors.New("genesis is required for the clock height source")
	}
	genesis, err := time.Parse(time.RFC3339, cfg.Genesis)
	if err != nil {
		return nil, fmt.Errorf("parse genesis: %w", err)
	}
	clock, err := stake.NewClockHeight(genesis, cfg.BlockTime)
	if err != nil {
		return nil, err
	}
	return clock, nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
