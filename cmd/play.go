package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/killallgit/audionote/internal/services/editor"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <id|deep-link>",
	Short: "Play the recording of a note",
	Long: `Play the recording of a stored note.

Playback stops when the countdown reaches zero or on Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	id, err := parseNoteRef(args[0])
	if err != nil {
		return err
	}

	return withApp(func(a *app) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		note, err := a.notes.GetByID(ctx, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		finished := make(chan struct{})
		var once sync.Once
		ed, manager := a.newEditor(nil,
			editor.WithTimerHandler(func(text string) {
				fmt.Fprintf(out, "\r%s  %s", note.Title, text)
			}),
			editor.WithPlaybackFinished(func() { once.Do(func() { close(finished) }) }),
		)
		defer manager.Close()
		defer ed.Close()

		ed.Open(*note)
		if _, err := ed.TogglePlayback(ctx); err != nil {
			return fmt.Errorf("%s: %w", apperrors.UserMessage(err), err)
		}

		select {
		case <-finished:
		case <-ctx.Done():
		}
		fmt.Fprintln(out)
		return nil
	})
}
