package cmd

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/drillmerge/internal/boardfiles"
	"github.com/OpenTraceLab/drillmerge/internal/watcher"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-run convert whenever drill files in a directory change",
	Long: `Convert the drill files of a directory once, then again after every change.
Rapid changes are grouped using the debounce delay. Stop with Ctrl+C.

Examples:
  drillmerge watch gerbers/ -o out/
  drillmerge watch gerbers/ -o out/ --debounce 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output directory (must differ from the watched one)")
	watchCmd.Flags().Duration("debounce", 0, "delay grouping rapid changes (default from config, 500ms)")
	watchCmd.MarkFlagRequired("output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if same, err := samePath(dir, watchOutput); err != nil {
		return err
	} else if same {
		return fmt.Errorf("output directory must differ from the watched directory")
	}

	w := cmd.OutOrStdout()
	loader := boardfiles.Loader{MaxFileSize: settings.Input.MaxFileSize}

	rerun := func(changed []string) error {
		logger.Info("drill files changed", zap.Strings("paths", changed))
		inputs, err := loader.Dir(dir)
		if err != nil {
			return err
		}
		return convert(w, inputs, watchOutput, "", false)
	}

	if err := rerun(nil); err != nil {
		warnColor.Fprintf(w, "error: %v\n", err)
	}

	fw, err := watcher.New(dir, settings.Watch.Debounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(w, "Watching %s (Ctrl+C to stop)\n", dir)
	if err := fw.Run(ctx, rerun); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", b, err)
	}
	return absA == absB, nil
}
