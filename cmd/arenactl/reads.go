package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JamesVictor-O/inversearena-v2/internal/model"
	"github.com/JamesVictor-O/inversearena-v2/internal/poll"
	"github.com/JamesVictor-O/inversearena-v2/internal/storage"
	"github.com/JamesVictor-O/inversearena-v2/internal/storage/postgres"
)

func addReadCommands(root *cobra.Command) {
	arenasCmd := &cobra.Command{
		Use:   "arenas",
		Short: "List recent arenas, newest first",
		RunE:  runArenas,
	}
	arenasCmd.Flags().Int("list-limit", 5, "maximum arenas to list")
	arenasCmd.Flags().String("viewer", "", "viewer address scoping per-pool player records")
	root.AddCommand(arenasCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate network-wide stats across all pools",
		RunE:  runStats,
	}
	root.AddCommand(statsCmd)

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Pools the user hosts or plays in, plus finished-game history",
		RunE:  runProfile,
	}
	profileCmd.Flags().String("address", "", "user address")
	root.AddCommand(profileCmd)

	creatorCmd := &cobra.Command{
		Use:   "creator",
		Short: "Creator stake balance and active pool count",
		RunE:  runCreator,
	}
	creatorCmd.Flags().String("address", "", "creator address")
	root.AddCommand(creatorCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll network stats on an interval, optionally recording samples",
		RunE:  runWatch,
	}
	watchCmd.Flags().Duration("poll-interval", 15*time.Second, "stats poll interval")
	watchCmd.Flags().String("pg-dsn", "", "Postgres DSN for telemetry samples")
	watchCmd.Flags().String("out", "", "JSONL path for telemetry samples")
	root.AddCommand(watchCmd)
}

func runArenas(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer app.close()

	viewer := common.Address{}
	if raw, _ := cmd.Flags().GetString("viewer"); raw != "" {
		viewer, err = parseAddress(raw, "viewer")
		if err != nil {
			return err
		}
	}

	views, err := app.svc.Arenas(ctx, viewer, app.cfg.ListLimit)
	if err != nil {
		return reportFailure(app.logger, err)
	}
	return printJSON(views)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer app.close()

	stats, err := app.svc.Stats(ctx)
	if err != nil {
		return reportFailure(app.logger, err)
	}
	return printJSON(stats)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer app.close()

	raw, _ := cmd.Flags().GetString("address")
	user, err := parseAddress(raw, "user")
	if err != nil {
		return err
	}

	profile, err := app.svc.Profile(ctx, user)
	if err != nil {
		return reportFailure(app.logger, err)
	}
	return printJSON(profile)
}

func runCreator(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer app.close()

	raw, _ := cmd.Flags().GetString("address")
	creator, err := parseAddress(raw, "creator")
	if err != nil {
		return err
	}

	status, err := app.svc.Creator(ctx, creator)
	if err != nil {
		return reportFailure(app.logger, err)
	}
	return printJSON(status)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer app.close()

	var sink storage.SampleSink
	if app.cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, app.cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sink = store
	} else if app.cfg.Out != "" {
		sink = storage.NewJsonlSink(app.cfg.Out)
	}

	poller := poll.New(app.cfg.PollInterval, app.agg.GlobalStats, app.logger)
	poller.SetOnResult(func(stats model.GlobalStats) {
		app.logger.Info("network stats",
			zap.Uint64("total_pools", stats.TotalPools),
			zap.Uint64("live_survivors", stats.LiveSurvivors),
			zap.Float64("global_pool_total", stats.GlobalPoolTotal),
			zap.String("network_load", stats.NetworkLoad),
		)
		if sink == nil {
			return
		}
		sample := model.StatsSample{
			ObservedAt:      time.Now().UTC(),
			TotalPools:      stats.TotalPools,
			LiveSurvivors:   stats.LiveSurvivors,
			GlobalPoolTotal: stats.GlobalPoolTotal,
			NetworkLoad:     stats.NetworkLoad,
		}
		if err := sink.PutSample(context.Background(), sample); err != nil {
			app.logger.Warn("record stats sample", zap.Error(err))
		}
	})

	app.logger.Info("watch start", zap.Duration("poll_interval", app.cfg.PollInterval))
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
