package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/drillmerge/internal/boardfiles"
)

const batchReportName = "drill-report.yaml"

var (
	batchOutput   string
	batchReports  bool
	batchFailFast bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <board-dir>...",
	Short: "Normalize the drill files of several boards in parallel",
	Long: `Run convert once per board directory. Each board is written to
<output>/<board-dir-name>/, or to <board-dir>/normalized/ when --output is not set.

Examples:
  drillmerge batch boards/* -o out/ --jobs 4
  drillmerge batch boardA/ boardB/ --reports`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output root directory")
	batchCmd.Flags().Int("jobs", 0, "boards processed at once (0 = number of CPUs)")
	batchCmd.Flags().BoolVar(&batchReports, "reports", false, "write "+batchReportName+" next to each board's outputs")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "stop at the first board that fails")
}

// boardOutcome is what one board produced; collected so output stays in argument order
type boardOutcome struct {
	dir string
	out bytes.Buffer
	err error
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs := settings.Batch.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	loader := boardfiles.Loader{MaxFileSize: settings.Input.MaxFileSize}
	outcomes := make([]*boardOutcome, len(args))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))

	for i, dir := range args {
		i, dir := i, dir
		outcomes[i] = &boardOutcome{dir: dir}
		g.Go(func() error {
			oc := outcomes[i]
			if err := contextErr(gctx); err != nil {
				oc.err = err
				return err
			}

			oc.err = processBoard(loader, dir, &oc.out)
			if oc.err != nil && batchFailFast {
				return fmt.Errorf("%s: %w", dir, oc.err)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	w := cmd.OutOrStdout()
	failed := 0
	for _, oc := range outcomes {
		fmt.Fprintf(w, "== %s\n", oc.dir)
		fmt.Fprint(w, oc.out.String())
		if oc.err != nil {
			failed++
			warnColor.Fprintf(w, "error: %v\n", oc.err)
		}
	}

	logger.Info("batch finished", zap.Int("boards", len(args)), zap.Int("failed", failed))

	if waitErr != nil {
		return waitErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d boards failed", failed, len(args))
	}
	return nil
}

func processBoard(loader boardfiles.Loader, dir string, out *bytes.Buffer) error {
	inputs, err := loader.Dir(dir)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, "normalized")
	if batchOutput != "" {
		target = filepath.Join(batchOutput, filepath.Base(filepath.Clean(dir)))
	}

	reportFile := ""
	if batchReports {
		reportFile = filepath.Join(target, batchReportName)
	}
	return convert(out, inputs, target, reportFile, false)
}

func contextErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
