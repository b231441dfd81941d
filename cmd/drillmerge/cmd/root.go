package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/drillmerge/internal/config"
	"github.com/OpenTraceLab/drillmerge/internal/logging"
	"github.com/OpenTraceLab/drillmerge/pkg/drill"
)

var (
	// Global flags
	verbose bool
	cfgFile string

	// Set up by PersistentPreRunE
	settings *config.Config
	logger   *zap.Logger
	runID    string
)

var rootCmd = &cobra.Command{
	Use:   "drillmerge",
	Short: "Normalize PCB drill files into one PTH and one NPTH Excellon program",
	Long: `drillmerge reads Excellon drill exports from Altium Designer, KiCad and other
EDA tools, merges tools of equal diameter across files and writes one plated (PTH)
and one non-plated (NPTH) drill program in a fixed metric Excellon dialect.

Blind and buried via files (.tx1-.tx6) are skipped with a warning.

Examples:
  drillmerge convert gerbers/ -o out/            # Merge every drill file in a directory
  drillmerge convert board-PTH.drl board-NPTH.drl --stdout
  drillmerge inspect gerbers/Board.drl           # Show dialect, format and tools
  drillmerge batch boardA/ boardB/ -o out/       # Process several boards in parallel
  drillmerge watch gerbers/ -o out/              # Re-run on every drill file change`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./drillmerge.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	pf.Int("precision", drill.DefaultPrecision, "decimal places of the diameter (mm) compared when merging tools")
	pf.Bool("sort-by-diameter", false, "order output tools by ascending diameter")
	pf.Int64("max-file-size", 32<<20, "reject input files larger than this many bytes (0 disables)")
}

// flagKeys maps flags to config keys; command-local flags are bound when present
var flagKeys = map[string]string{
	"log-level":        "log.level",
	"log-format":       "log.format",
	"precision":        "merge.precision",
	"sort-by-diameter": "merge.sort_by_diameter",
	"max-file-size":    "input.max_file_size",
	"jobs":             "batch.jobs",
	"debounce":         "watch.debounce",
}

func setup(cmd *cobra.Command, args []string) error {
	v := config.New(cfgFile)
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	if err := config.ReadFile(v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	base, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	runID = uuid.NewString()
	settings = cfg
	logger = logging.WithRun(base, runID)

	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// options builds pipeline options from the loaded settings
func options() drill.Options {
	return drill.Options{
		Merger: settings.Merger(),
		Header: settings.StaticHeader(),
		Logger: logger,
	}
}
