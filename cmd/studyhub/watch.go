package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	lcadapter "github.com/aretw0/studyhub/pkg/adapters/lifecycle"
	"github.com/aretw0/studyhub/pkg/core"
)

var (
	watchPattern string
	watchFor     time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload sections as other programs change the vault",
	Long: `Watch the vault for changes made by other programs (another studyhub
process, a sync client, an editor) and reload the affected section. Runs until
interrupted, or for --for when set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if watchFor > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, watchFor)
			defer cancel()
		}

		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.Hub.Watch(ctx, watchPattern)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", s.vault)

		out := cmd.OutOrStdout()
		return s.Hub.Follow(ctx, lcadapter.NewSource(events), func(e core.Event, err error) {
			if err != nil {
				fmt.Fprintf(out, "%s (reload failed: %v)\n", e, err)
				return
			}
			fmt.Fprintln(out, e)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "*", "Only report keys matching this glob")
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "Stop after this long (0 runs until interrupted)")
}
