package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/killallgit/audionote/internal/services/editor"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a new note",
	Long: `Record a new note from the configured capture device.

Recording stops after --duration or on Ctrl+C, then the note is saved.
With --remind-in a reminder is armed relative to now.

Example:
  audionote record --title "Lecture 1" --duration 5m
  audionote record --title "Call back" --duration 20s --remind-in 1h`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringP("title", "t", "", "note title (required)")
	recordCmd.Flags().StringP("description", "d", "", "note description")
	recordCmd.Flags().Duration("duration", 30*time.Second, "maximum recording length")
	recordCmd.Flags().Duration("remind-in", 0, "arm a reminder this long from now")
	_ = recordCmd.MarkFlagRequired("title")
}

func runRecord(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	duration, _ := cmd.Flags().GetDuration("duration")
	remindIn, _ := cmd.Flags().GetDuration("remind-in")

	if duration <= 0 {
		return apperrors.InvalidInput("duration", "must be positive")
	}
	if remindIn < 0 {
		return apperrors.InvalidInput("remind-in", "must not be negative")
	}

	return withApp(func(a *app) error {
		out := cmd.OutOrStdout()
		ed, manager := a.newEditor(nil, editor.WithTimerHandler(func(text string) {
			fmt.Fprintf(out, "\rRecording %s", text)
		}))
		defer manager.Close()
		defer ed.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ed.NewNote()
		ed.SetTitle(title)
		ed.SetDescription(description)

		if err := ensureMicrophone(ctx, a, ed); err != nil {
			return err
		}
		if err := ed.StartRecording(ctx); err != nil {
			return fmt.Errorf("%s: %w", apperrors.UserMessage(err), err)
		}

		timer := time.NewTimer(duration)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		fmt.Fprintln(out)

		if remindIn > 0 {
			fireAt := ed.PickReminder(time.Now().Add(remindIn))
			logrus.WithField("fire_at", fireAt).Debug("Reminder picked")
		}

		// Saving must not be cut short by the interrupt that ended recording
		if err := ed.Save(context.WithoutCancel(ctx)); err != nil {
			return fmt.Errorf("%s: %w", apperrors.UserMessage(err), err)
		}

		note := ed.Note()
		fmt.Fprintf(out, "Saved note %d %q (%ds, %s MB)\n", note.ID, note.Title, note.AudioLength, note.Size)
		if note.HasReminder() {
			fmt.Fprintf(out, "Reminder at %s\n", note.ReminderTime().Local().Format(time.RFC1123))
		}
		return nil
	})
}

// ensureMicrophone asks for capture permission once, remembering the answer
func ensureMicrophone(ctx context.Context, a *app, ed *editor.Editor) error {
	granted, err := a.permissions().Check(ctx)
	if err != nil {
		return err
	}
	if granted {
		return nil
	}
	granted, err = ed.RequestPermission(ctx)
	if err != nil {
		return err
	}
	if !granted {
		return apperrors.PermissionDenied()
	}
	return nil
}
