package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kweku404/intervue/internal/app"
	"github.com/kweku404/intervue/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intervue",
	Short: "AI-powered timed interview CLI",
	Long: `Intervue runs a timed, resumable interview session in your terminal.
Upload a resume, answer AI-generated questions against a countdown, and build
a searchable roster of evaluated candidates.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store app in command context
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application := app.GetAppFromContext(cmd.Context()); application != nil {
			application.Close()
		}
	},
}

// loadState rehydrates the persisted state tree. A snapshot written by an
// incompatible version is reported and replaced with fresh initial state
// rather than refusing to run.
func loadState(application *app.App) (*store.Snapshot, error) {
	snap, err := application.Store.LoadSnapshot()
	if errors.Is(err, store.ErrSnapshotVersion) {
		fmt.Fprintln(os.Stderr, "Warning: stored state is from an incompatible version, starting fresh.")
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return snap, nil
}

// Execute runs the root command
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
