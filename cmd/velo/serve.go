package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/velodom/velo/pkg/replay"
	"github.com/velodom/velo/pkg/stream"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the op-stream server",
		Long: `Run the streaming server: WebSocket op batches on /ws, liveness on
/healthz, and Prometheus metrics on /metrics.

Flags can also be set through VELO_-prefixed environment variables,
e.g. VELO_ADDR=:9000.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8420", "Listen address")
	cmd.Flags().String("metrics-namespace", "velo", "Prometheus metrics namespace")
	cmd.Flags().String("archive-dir", "", "Archive op batches to this directory")
	cmd.Flags().String("session", "default", "Session name for the archive")

	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("metrics-namespace", cmd.Flags().Lookup("metrics-namespace"))
	_ = viper.BindPFlag("archive-dir", cmd.Flags().Lookup("archive-dir"))
	_ = viper.BindPFlag("session", cmd.Flags().Lookup("session"))
	viper.SetEnvPrefix("VELO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	engine := stream.NewEngine(
		stream.WithMetrics(stream.NewMetrics(
			stream.WithNamespace(viper.GetString("metrics-namespace")),
		)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dir := viper.GetString("archive-dir"); dir != "" {
		store, err := replay.NewDiskStore(dir)
		if err != nil {
			return err
		}
		frames := engine.Subscribe()
		defer engine.Unsubscribe(frames)
		go replay.NewArchiver(store, viper.GetString("session")).Run(ctx, frames)
		logger.Info("archiving enabled", "dir", dir)
	}

	server := stream.NewServer(engine, &stream.ServerConfig{
		Addr: viper.GetString("addr"),
	})
	return server.Start(ctx)
}
