package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/mabhi256/ldiag/internal/chain"
	"github.com/mabhi256/ldiag/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [trace-file]",
	Short: "Follow a growing leak trace and analyze chains as they arrive",
	Long: `Watch tails the tracker's trace file and runs the leak analysis on every
chain appended to it, printing a compact finding per chain. Lines already in
the file are skipped; rotation is handled by re-reading the new file.

Examples:
  ldiag watch Saved/Logs/lua_leaks.log
  ldiag watch /tmp/leaks.txt --verbose`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTraceFiles,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("trace file does not exist: %s", args[0])
		}
		if info.IsDir() {
			return fmt.Errorf("trace file is a directory: %s", args[0])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("👀 Watching %s (Ctrl-C to stop)\n", args[0])

		var ordinal atomic.Int64
		err := watch.Follow(ctx, args[0], func(line string) {
			r := chain.Analyze(line)
			r.Ordinal = int(ordinal.Add(1))
			chain.PrintCompact(&r)
		}, log())
		if err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}

		fmt.Printf("\nStopped after %d chains\n", ordinal.Load())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
