package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/audionote/pkg/config"
	"github.com/killallgit/audionote/pkg/logging"
	"github.com/spf13/cobra"
)

// appConfig is populated by loadConfig for commands that need it
var appConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "audionote",
	Short: "Audio Notes recorder and reminder service",
	Long: `Audio Notes - record short voice notes and get reminded about them

Notes carry a title, a description and a recording. A reminder can be set
on any saved note; when it fires a notification is posted that opens the
note again.

Features:
  • Voice capture and playback through ffmpeg
  • Reminder alarms backed by a persistent job queue
  • Notifications to the built-in tray, the log, the desktop or redis
  • HTTP API and terminal UI over the same notes database`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		return logging.Setup(level, jsonLogs)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration when a command needs it.
// version and help never call it.
func loadConfig() error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	appConfig = cfg
	return nil
}
