package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/drillmerge/internal/boardfiles"
	"github.com/OpenTraceLab/drillmerge/internal/report"
	"github.com/OpenTraceLab/drillmerge/pkg/drill"
)

// ErrNoThroughHoles is returned when no input produced any through-hole program
var ErrNoThroughHoles = errors.New("no through-hole drill data found")

var (
	outputDir  string
	reportPath string
	toStdout   bool
)

var (
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|dir>...",
	Short: "Merge drill files into one PTH and one NPTH program",
	Long: `Parse every given drill file (directories are scanned for .drl, .tx1-.tx6 and
drill/hole .txt files), merge tools sharing a diameter and write the plated and
non-plated programs.

Examples:
  drillmerge convert gerbers/ -o out/
  drillmerge convert Board-PTH.drl Board-NPTH.drl --stdout
  drillmerge convert gerbers/ -o out/ --report out/drill-report.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	convertCmd.Flags().StringVar(&reportPath, "report", "", "write a YAML run report to this path")
	convertCmd.Flags().BoolVar(&toStdout, "stdout", false, "print the programs instead of writing files")
}

func runConvert(cmd *cobra.Command, args []string) error {
	loader := boardfiles.Loader{MaxFileSize: settings.Input.MaxFileSize}
	inputs, err := loader.Files(args)
	if err != nil {
		return fmt.Errorf("failed to load drill files: %w", err)
	}

	return convert(cmd.OutOrStdout(), inputs, outputDir, reportPath, toStdout)
}

// convert runs the pipeline over inputs and writes the outputs into dir, or prints
// them when stdout is set. A report is written when reportFile is not empty.
func convert(w io.Writer, inputs []drill.Input, dir, reportFile string, stdout bool) error {
	result := drill.Process(inputs, options())
	printWarnings(w, result.Warnings)

	if reportFile != "" {
		rep := report.Build(runID, inputs, result, time.Now())
		if err := rep.WriteFile(reportFile); err != nil {
			return err
		}
		logger.Debug("report written", zap.String("path", reportFile))
	}

	if result.Empty() {
		return ErrNoThroughHoles
	}

	if stdout {
		if result.PTH != nil {
			fmt.Fprint(w, *result.PTH)
		}
		if result.NPTH != nil {
			fmt.Fprint(w, *result.NPTH)
		}
		return nil
	}

	written, err := boardfiles.WriteResult(dir, result, settings.Output.PTHName, settings.Output.NPTHName)
	if err != nil {
		return err
	}
	for _, path := range written {
		okColor.Fprintf(w, "✓ wrote %s\n", path)
	}
	return nil
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		warnColor.Fprintf(w, "warning: %s\n", msg)
	}
}
