package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tuiapp "github.com/killallgit/audionote/internal/tui/app"
	"github.com/killallgit/audionote/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive notes screen",
	Long: `Open the interactive terminal interface for Audio Notes.

Browse notes, record new ones, set reminders and change settings. Reminder
workers run while the interface is open, so alarms fire and notifications
are posted without a separate server.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		pool, err := a.newWorkerPool()
		if err != nil {
			return err
		}
		if err := pool.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer pool.Stop()

		events := tuiapp.NewEvents()
		ed, manager := a.newEditor(events.ReportError)
		defer manager.Close()
		defer ed.Close()

		logrus.Info("Opening terminal interface")
		logging.Discard()
		defer logrus.SetOutput(os.Stderr)

		return tuiapp.Run(ctx, tuiapp.Deps{
			Preferences: a.settings,
			Microphone:  a.permissions(),
			Notes:       manager,
			Editor:      ed,
			Events:      events,
		})
	})
}
