package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/bitcoin"
	"github.com/goodnatureofminers/tideshash-backend/internal/blocksignal"
	"github.com/goodnatureofminers/tideshash-backend/internal/metrics"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/internal/repository/clickhouse"
	"github.com/goodnatureofminers/tideshash-backend/internal/retry"
	"github.com/goodnatureofminers/tideshash-backend/internal/tides/service"
	"github.com/goodnatureofminers/tideshash-backend/internal/transport"
	"github.com/goodnatureofminers/tideshash-backend/pkg/batcher"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type config struct {
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"TIDES_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Addr           string        `long:"addr" env:"TIDES_ADDR" description:"gRPC listen address" default:":8000"`
	RestAddr       string        `long:"rest-addr" env:"TIDES_REST_ADDR" description:"REST listen address" default:":8001"`
	MetricsAddr    string        `long:"metrics-addr" env:"TIDES_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	Network        model.Network `long:"network" env:"TIDES_NETWORK" description:"bitcoin network" default:"mainnet" choice:"mainnet" choice:"testnet" choice:"regtest" choice:"signet"`
	RPCURL         string        `long:"rpc-url" env:"TIDES_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser        string        `long:"rpc-user" env:"TIDES_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword    string        `long:"rpc-password" env:"TIDES_RPC_PASSWORD" description:"Bitcoin RPC password"`
	ZMQAddr        string        `long:"zmq-addr" env:"TIDES_ZMQ_ADDR" description:"bitcoind zmqpubhashblock address (zmq builds only)"`
	Multiplier     uint64        `long:"window-multiplier" env:"TIDES_WINDOW_MULTIPLIER" description:"window size as a multiple of network difficulty" default:"8"`
	DifficultyPoll time.Duration `long:"difficulty-poll" env:"TIDES_DIFFICULTY_POLL" description:"chain tip poll interval" default:"30s"`
	ReplayHorizon  time.Duration `long:"replay-horizon" env:"TIDES_REPLAY_HORIZON" description:"age of shares restored at startup" default:"72h"`
	MaxClockSkew   time.Duration `long:"max-clock-skew" env:"TIDES_MAX_CLOCK_SKEW" description:"how far ahead a share timestamp may be" default:"2m"`
	BatchSize      int           `long:"batch-size" env:"TIDES_BATCH_SIZE" description:"shares per ClickHouse insert" default:"1000"`
	BatchInterval  time.Duration `long:"batch-interval" env:"TIDES_BATCH_INTERVAL" description:"max delay before a share insert" default:"1s"`
	BatchRPS       int           `long:"batch-rps" env:"TIDES_BATCH_RPS" description:"max share inserts per second" default:"20"`
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
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("tides ledger failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	logger = logger.With(zap.String("network", string(cfg.Network)))
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	params, err := cfg.Network.Params()
	if err != nil {
		return err
	}

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	shareWriter := batcher.New(
		logger.Named("shareBatcher"),
		func(ctx context.Context, shares []model.Share) error {
			return retry.Do(ctx, retry.DefaultPolicy(), func(ctx context.Context) error {
				return repo.InsertShares(ctx, shares)
			}, func(err error, wait time.Duration) {
				logger.Warn("retrying share insert", zap.Int("shares", len(shares)), zap.Duration("wait", wait), zap.Error(err))
			})
		},
		cfg.BatchSize,
		cfg.BatchInterval,
		cfg.BatchRPS,
		batcher.WithObserver(metrics.NewBatcher("shares").ObserveFlush),
	)

	ledgerMetrics := metrics.NewLedger()
	svc, err := service.New(repo, shareWriter, ledgerMetrics, service.Config{
		Multiplier:    cfg.Multiplier,
		ReplayHorizon: cfg.ReplayHorizon,
		MaxClockSkew:  cfg.MaxClockSkew,
	}, logger)
	if err != nil {
		return fmt.Errorf("init ledger service: %w", err)
	}
	if err := svc.Replay(ctx); err != nil {
		return fmt.Errorf("replay share log: %w", err)
	}

	rpcClient, err := bitcoin.Dial(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init bitcoin rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()
	difficulty, err := bitcoin.NewDifficultySource(
		bitcoin.NewObservedClient(rpcClient, metrics.NewRPCClient(cfg.Network)),
		params,
	)
	if err != nil {
		return fmt.Errorf("init difficulty source: %w", err)
	}

	blockSignal, err := blocksignal.Start(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}
	follower, err := service.NewDifficultyFollower(difficulty, svc, ledgerMetrics, cfg.DifficultyPoll, logger, blockSignal)
	if err != nil {
		return fmt.Errorf("init difficulty follower: %w", err)
	}

	grpcServer := newGRPCServer(svc, logger)
	restServer, err := newRESTServer(cfg.RestAddr, svc, logger)
	if err != nil {
		return err
	}
	socket, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Run(gctx)
	})
	g.Go(func() error {
		return follower.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting gRPC server", zap.String("addr", cfg.Addr))
		return grpcServer.Serve(socket)
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
		logger.Info("shutting down servers")
		grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return restServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newGRPCServer(svc *service.Service, logger *zap.Logger) *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)

	transport.RegisterLedgerServiceServer(grpcServer, transport.NewLedgerHandler(svc, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(transport.LedgerServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)
	return grpcServer
}

func newRESTServer(addr string, svc *service.Service, logger *zap.Logger) (*http.Server, error) {
	gw := gwruntime.NewServeMux()
	if err := transport.RegisterLedgerRoutes(gw, svc, logger); err != nil {
		return nil, fmt.Errorf("register ledger routes: %w", err)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(gw),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}, nil
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
