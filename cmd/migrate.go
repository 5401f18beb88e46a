package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/killallgit/audionote/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for Audio Notes.

Tables are created and updated from the application models, so applying
migrations is safe to repeat.

Available subcommands:
  up      - Create or update all application tables
  status  - Show which application tables exist`,
}

// migrateUpCmd applies pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Long: `Apply all pending database migrations.

This creates missing tables and adds missing columns and indexes for
notes, jobs, notifications and preferences.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of database migrations.

Every application table is listed together with whether it exists in the
configured database.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openConfiguredDB() (*database.DB, error) {
	if err := loadConfig(); err != nil {
		return nil, err
	}
	db := appConfig.Database
	return database.Open(database.Options{
		Driver:  db.Driver,
		Path:    db.Path,
		DSN:     db.DSN,
		Verbose: db.Verbose,
	})
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	db, err := openConfiguredDB()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		return printMigrationStatus(out, db)
	}

	if err := db.Migrate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrations applied (%s)\n", db.Driver())
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openConfiguredDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return printMigrationStatus(cmd.OutOrStdout(), db)
}

func printMigrationStatus(out io.Writer, db *database.DB) error {
	status, err := db.MigrationStatus()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Driver: %s\n\n", db.Driver())

	pending := 0
	for _, s := range status {
		state := "applied"
		if !s.Exists {
			state = "pending"
			pending++
		}
		fmt.Fprintf(out, "  %-16s %s\n", s.Table, state)
	}
	fmt.Fprintf(out, "\n%d of %d tables pending\n", pending, len(status))
	return nil
}
