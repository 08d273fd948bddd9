package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fgravato/rutos-scanner/internal/analyzer"
	"github.com/fgravato/rutos-scanner/internal/config"
	"github.com/fgravato/rutos-scanner/internal/database"
	"github.com/fgravato/rutos-scanner/internal/snapshot"
	apierrors "github.com/fgravato/rutos-scanner/pkg/errors"
	"github.com/fgravato/rutos-scanner/pkg/rutos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel)

	store, err := database.NewStore(database.Config{Path: cfg.Database.Path})
	if err != nil {
		logger.Fatal().Err(err).Msg("opening snapshot store")
	}
	defer store.Close()

	repo := snapshot.NewRepository(store)
	snapshots := snapshot.NewService(repo)
	fleet := analyzer.NewAnalyzer(snapshots)
	ctx := context.Background()

	if len(os.Args) > 1 && os.Args[1] == "--local" {
		logger.Info().Msg("reading from local snapshot store")
		printReport(ctx, snapshots, fleet, logger)
		return
	}

	client := rutos.NewClient(rutos.Config{
		BaseURL:       cfg.Router.BaseURL,
		Username:      cfg.Router.Username,
		Password:      cfg.Router.Password,
		SkipTLSVerify: !cfg.Router.VerifyTLS,
	}, logger)
	defer client.Close()

	if cfg.App.ScanInterval <= 0 {
		if err := runScan(ctx, client, snapshots, logger); err != nil {
			logger.Fatal().Err(err).Msg("scan failed")
		}
		printReport(ctx, snapshots, fleet, logger)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(cfg.App.ScanInterval)
	defer ticker.Stop()

	logger.Info().Dur("interval", cfg.App.ScanInterval).Msg("starting periodic scan")
	for {
		if err := runScan(ctx, client, snapshots, logger); err != nil {
			var authErr *apierrors.AuthenticationError
			if stderrors.As(err, &authErr) {
				logger.Fatal().Err(err).Msg("device rejected credentials")
			}
			logger.Error().Err(err).Msg("scan failed")
		} else {
			printReport(ctx, snapshots, fleet, logger)
		}

		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			if _, err := client.Logout(ctx); err != nil {
				logger.Debug().Err(err).Msg("logout on shutdown failed")
			}
			return
		case <-ticker.C:
		}
	}
}

// runScan fetches device identity, system details and modem statuses, and
// persists one snapshot per modem.
func runScan(ctx context.Context, client *rutos.Client, snapshots snapshot.Service, logger zerolog.Logger) error {
	info, err := client.GetDeviceInfo(ctx)
	if err != nil {
		return fmt.Errorf("getting device info: %w", err)
	}
	logger.Info().
		Str("device", info.DeviceName).
		Str("model", info.DeviceModel).
		Str("api_version", info.APIVersion).
		Msg("scanning device")

	sysInfo, err := client.GetSystemInfo(ctx)
	if err != nil {
		return fmt.Errorf("getting system info: %w", err)
	}
	logger.Info().
		Str("firmware", sysInfo.Static.FwVersion).
		Str("serial", sysInfo.MnfInfo.Serial).
		Msg("system info")

	statuses, err := client.GetModemStatus(ctx)
	if err != nil {
		return fmt.Errorf("getting modem status: %w", err)
	}
	if err := snapshots.RecordStatuses(ctx, statuses); err != nil {
		return fmt.Errorf("recording snapshots: %w", err)
	}
	logger.Info().Int("modems", len(statuses)).Msg("snapshots recorded")
	return nil
}

// printReport prints fleet statistics and the signal analysis.
func printReport(ctx context.Context, snapshots snapshot.Service, fleet *analyzer.Analyzer, logger zerolog.Logger) {
	stats, err := snapshots.GetStatistics(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("computing statistics")
		return
	}

	fmt.Printf("\nModem Fleet Statistics:\n")
	fmt.Printf("Total Modems: %d\n", stats.TotalModems)
	fmt.Printf("Online: %d\n", stats.OnlineModems)
	fmt.Printf("Offline: %d\n", stats.OfflineModems)
	fmt.Printf("Dual SIM: %d\n", stats.DualSimModems)
	for networkType, count := range stats.NetworkTypes {
		fmt.Printf("  %s: %d\n", networkType, count)
	}

	analysis, err := fleet.AnalyzeFleet(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("analyzing fleet")
		return
	}

	fmt.Printf("\nSignal Quality:\n")
	for _, level := range []analyzer.RiskLevel{analyzer.RiskHigh, analyzer.RiskMedium, analyzer.RiskLow} {
		if stats := analysis.SignalStats[level]; stats.Count > 0 {
			fmt.Printf("%s: %d (%s)\n", level, stats.Count, stats.Description)
		}
	}
	for _, dist := range analysis.Distribution {
		fmt.Printf("  %s: %d (%.1f%%)\n", dist.NetworkType, dist.Count, dist.Percentage)
	}
}

func newLogger(level string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(logLevel).
		With().Timestamp().Logger()
}
