package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"xdao.co/transcode/config"
	"xdao.co/transcode/model"
	"xdao.co/transcode/transport/grpccodec"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr, nil))
}

// run starts the daemon and blocks until ctx is done. ready, when non-nil,
// receives the bound address once the listener is up.
func run(ctx context.Context, args []string, errOut io.Writer, ready chan<- net.Addr) int {
	fs := pflag.NewFlagSet("transcoded", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "config file (.yaml, .yml, .json, .jsonc); defaults to $"+config.EnvPath)
	listen := fs.String("listen", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	level, _ := cfg.SlogLevel()
	if os.Getenv("TRANSCODE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Listen, "error", err)
		return 1
	}
	defer lis.Close()

	opts := []grpc.ServerOption{grpc.UnaryInterceptor(grpccodec.UnaryLogger(logger))}
	if cfg.GRPC.MaxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(cfg.GRPC.MaxMsgBytes), grpc.MaxSendMsgSize(cfg.GRPC.MaxMsgBytes))
	}
	s := grpc.NewServer(opts...)
	grpccodec.RegisterCodecServer(s, &grpccodec.Server{Service: model.NewLocal(cfg.Options())})

	hs := health.NewServer()
	hs.SetServingStatus(grpccodec.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	logger.Info("transcoded listening", "addr", lis.Addr().String(), "digest", cfg.Digest)
	if ready != nil {
		ready <- lis.Addr()
	}

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(lis) }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		hs.Shutdown()
		s.GracefulStop()
		return 0
	case err := <-errc:
		if err != nil {
			logger.Error("serve failed", "error", err)
			return 1
		}
		return 0
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
