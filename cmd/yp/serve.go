package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/api"
	"github.com/zulandar/yardplan/internal/repair"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serves the JSON API and /metrics. When repair.schedule is set, a full date
repair of every organization runs on that cron schedule in the background.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	s, err := openSession(cmd, configPath, "")
	if err != nil {
		return err
	}
	slog.SetDefault(s.logger)
	if port <= 0 {
		port = s.cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if expr := s.cfg.Repair.Schedule; expr != "" {
		sched, err := repair.NewScheduler(s.db, s.eng, expr, s.logger)
		if err != nil {
			return err
		}
		go sched.Run(ctx)
		s.logger.Info("repair scheduled", slog.String("schedule", expr))
	}

	return api.Start(ctx, api.StartOpts{
		DB:     s.db,
		Engine: s.eng,
		Port:   port,
		Out:    cmd.OutOrStdout(),
		Logger: s.logger,
	})
}
