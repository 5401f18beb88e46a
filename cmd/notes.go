package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/notifications"
	"github.com/killallgit/audionote/internal/services/recording"
	"github.com/killallgit/audionote/internal/tui/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List, inspect, delete and export notes",
	Long: `Work with stored notes from the command line.

Available subcommands:
  list    - List every note, most recently modified first
  show    - Show one note by id or notification deep link
  delete  - Delete a note, its reminder and its recording
  export  - Write all notes as YAML or JSON`,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE:  runNotesList,
}

var notesShowCmd = &cobra.Command{
	Use:   "show <id|deep-link>",
	Short: "Show a single note",
	Long: `Show a single note.

The note can be given by id or by the deep link carried in its
notification, for example audionote://notes/3/edit.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotesShow,
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesDelete,
}

var notesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes",
	Long: `Export all notes as YAML or JSON.

Example:
  audionote notes export
  audionote notes export --format json --output notes.json`,
	Args: cobra.NoArgs,
	RunE: runNotesExport,
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesShowCmd)
	notesCmd.AddCommand(notesDeleteCmd)
	notesCmd.AddCommand(notesExportCmd)

	notesExportCmd.Flags().StringP("format", "f", "yaml", "output format (yaml, json)")
	notesExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}

func withApp(fn func(a *app) error) error {
	if err := loadConfig(); err != nil {
		return err
	}
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runNotesList(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		all, err := a.notes.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		writeNotesTable(cmd.OutOrStdout(), all, time.Now())
		return nil
	})
}

func runNotesShow(cmd *cobra.Command, args []string) error {
	id, err := parseNoteRef(args[0])
	if err != nil {
		return err
	}
	return withApp(func(a *app) error {
		note, err := a.notes.GetByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		writeNoteDetail(cmd.OutOrStdout(), *note, time.Now(), a.cfg.Notifications.DeepLinkScheme)
		return nil
	})
}

func runNotesDelete(cmd *cobra.Command, args []string) error {
	id, err := parseNoteRef(args[0])
	if err != nil {
		return err
	}
	return withApp(func(a *app) error {
		ctx := cmd.Context()
		note, err := a.notes.GetByID(ctx, id)
		if err != nil {
			return err
		}

		ed, manager := a.newEditor(nil)
		defer manager.Close()
		defer ed.Close()

		ed.Open(*note)
		if err := ed.Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d (%s)\n", note.ID, note.Title)
		return nil
	})
}

func runNotesExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	return withApp(func(a *app) error {
		all, err := a.notes.GetAll(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()
			out = f
		}
		return writeExport(out, all, format, time.Now())
	})
}

// parseNoteRef accepts a numeric id or a notification deep link
func parseNoteRef(ref string) (uint, error) {
	if strings.Contains(ref, "://") {
		return notifications.ParseDeepLink(ref)
	}
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid note id: %q", ref)
	}
	return uint(id), nil
}

func reminderLabel(n models.Note, now time.Time) string {
	switch {
	case !n.HasReminder():
		return "-"
	case n.ReminderCompleted(now):
		return "done"
	default:
		return n.ReminderTime().Local().Format("Jan 2 15:04")
	}
}

func writeNotesTable(w io.Writer, all []models.Note, now time.Time) {
	if len(all) == 0 {
		fmt.Fprintln(w, "No notes yet")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "ID", "TITLE", "DURATION", "SIZE (MB)", "REMINDER")
	for _, n := range all {
		t.Row(
			ui.Swatch(n.Color),
			strconv.FormatUint(uint64(n.ID), 10),
			n.Title,
			recording.FormatElapsed(n.Duration()),
			n.Size,
			reminderLabel(n, now),
		)
	}
	fmt.Fprintln(w, t.String())
}

func writeNoteDetail(w io.Writer, n models.Note, now time.Time, scheme string) {
	fmt.Fprintf(w, "%s %s\n", ui.Swatch(n.Color), n.Title)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	if n.Description != "" {
		fmt.Fprintf(w, "%s\n\n", n.Description)
	}
	fmt.Fprintf(w, "ID:         %d\n", n.ID)
	fmt.Fprintf(w, "Duration:   %s\n", recording.FormatClock(n.Duration()))
	fmt.Fprintf(w, "Size:       %s MB\n", n.Size)
	fmt.Fprintf(w, "Recording:  %s\n", n.FilePath)
	fmt.Fprintf(w, "Modified:   %s\n", time.UnixMilli(n.LastModificationDate).Local().Format(time.RFC1123))
	fmt.Fprintf(w, "Reminder:   %s\n", reminderLabel(n, now))
	fmt.Fprintf(w, "Link:       %s\n", notifications.DeepLink(scheme, n.ID))
}

type exportDocument struct {
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Count      int          `json:"count" yaml:"count"`
	Notes      []exportNote `json:"notes" yaml:"notes"`
}

type exportNote struct {
	ID          uint       `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string     `json:"color" yaml:"color"`
	Modified    time.Time  `json:"modified" yaml:"modified"`
	Duration    string     `json:"duration" yaml:"duration"`
	Size        string     `json:"size" yaml:"size"`
	FilePath    string     `json:"file_path" yaml:"file_path"`
	Reminder    *time.Time `json:"reminder,omitempty" yaml:"reminder,omitempty"`
}

func writeExport(w io.Writer, all []models.Note, format string, now time.Time) error {
	doc := exportDocument{
		ExportedAt: now.UTC(),
		Count:      len(all),
		Notes:      make([]exportNote, 0, len(all)),
	}
	for _, n := range all {
		entry := exportNote{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			Color:       ui.HexColor(n.Color),
			Modified:    time.UnixMilli(n.LastModificationDate).UTC(),
			Duration:    recording.FormatClock(n.Duration()),
			Size:        n.Size,
			FilePath:    n.FilePath,
		}
		if n.HasReminder() {
			at := n.ReminderTime().UTC()
			entry.Reminder = &at
		}
		doc.Notes = append(doc.Notes, entry)
	}

	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported export format: %q", format)
	}
}
