package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/statichost/cspsync/internal/config"
	"github.com/statichost/cspsync/internal/errors"
	"github.com/statichost/cspsync/internal/logging"
	"github.com/statichost/cspsync/internal/scanner"
	"github.com/statichost/cspsync/internal/syncer"
	"github.com/statichost/cspsync/internal/watcher"
)

// watchDebounce groups editor save bursts into one re-sync.
const watchDebounce = 300 * time.Millisecond

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.NewExitError(errors.ExitConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return errors.NewExitError(errors.ExitConfig, err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: "text",
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := syncer.New(cfg, logger, os.Stdout)

	report, err := s.Run(ctx)
	if err != nil {
		return errors.NewExitError(errors.ExitConfig, err)
	}

	if err := s.Render(report); err != nil {
		return errors.NewExitError(errors.ExitConfig, err)
	}

	if cfg.Check && report.Dirty() {
		return errors.NewExitError(errors.ExitDirty,
			fmt.Errorf("%d file(s) would change", report.Updated))
	}

	if cfg.Watch {
		return runWatch(ctx, cfg, logger, s)
	}

	return nil
}

// runWatch blocks until interrupted, re-syncing HTML files as they
// change. Each batch is reported individually; there is no final
// summary since the process only ends on a signal.
func runWatch(ctx context.Context, cfg *config.Config, logger logging.Logger, s *syncer.Syncer) error {
	excludes := cfg.Excludes
	if excludes == nil {
		excludes = scanner.DefaultExcludes
	}
	if !cfg.IncludeTools {
		excludes = append(append([]string{}, excludes...), scanner.ToolsDir)
	}

	fw, err := watcher.New(watchDebounce, excludes, func(paths []string) {
		for _, path := range paths {
			result := s.SyncFile(ctx, path)
			switch result.Outcome {
			case syncer.OutcomeUpdated:
				fmt.Printf("[ok] %s: re-synced script hashes\n", path)
			case syncer.OutcomeNoCSP:
				fmt.Printf("[warn] %s: has inline <script> but no CSP meta (http-equiv). Skipping.\n", path)
			case syncer.OutcomeError:
				fmt.Printf("[warn] %s: %v. Skipping.\n", path, result.Err)
			}
		}
	})
	if err != nil {
		return errors.NewExitError(errors.ExitConfig, fmt.Errorf("cannot start watcher: %w", err))
	}
	defer fw.Stop()

	if err := fw.AddRecursive(cfg.Root); err != nil {
		return errors.NewExitError(errors.ExitConfig, fmt.Errorf("cannot watch root: %w", err))
	}

	logger.Info(ctx, "watching for changes", "root", cfg.Root, "write", cfg.Write)
	fmt.Printf("[watch] watching %s (Ctrl-C to stop)\n", cfg.Root)

	fw.Start(ctx)

	return nil
}
