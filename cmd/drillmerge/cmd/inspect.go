package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/drillmerge/internal/boardfiles"
	"github.com/OpenTraceLab/drillmerge/pkg/drill"
	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

var showCommands bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|dir>...",
	Short: "Show dialect, coordinate format and tools of drill files",
	Long: `Parse drill files without merging them and print what was detected:
EDA dialect, unit and zero suppression, plating and the tools with their hole
and slot counts.

Examples:
  drillmerge inspect gerbers/
  drillmerge inspect -c Board-PTH.drl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVarP(&showCommands, "commands", "c", false,
		"list every hole and slot")
}

func runInspect(cmd *cobra.Command, args []string) error {
	loader := boardfiles.Loader{MaxFileSize: settings.Input.MaxFileSize}
	inputs, err := loader.Files(args)
	if err != nil {
		return fmt.Errorf("failed to load drill files: %w", err)
	}

	w := cmd.OutOrStdout()
	for _, in := range inputs {
		inspectFile(w, in)
	}
	return nil
}

func inspectFile(w io.Writer, in drill.Input) {
	dialect := excellon.Classify(in.Content)
	fmt.Fprintf(w, "%s\n", in.Name)
	fmt.Fprintf(w, "  Dialect:  %s\n", dialect)

	if !excellon.IsThroughDrill(in.Name) {
		warnColor.Fprintf(w, "  Blind/buried via file, skipped by convert\n\n")
		return
	}

	program, fileType, whole := excellon.ParserFor(dialect).Parse(in.Content)

	if dialect == excellon.KiCad {
		fmt.Fprintf(w, "  Format:   decimal\n")
	} else {
		f := excellon.GenericParser{}.ParseHeader(in.Content).Format
		fmt.Fprintf(w, "  Format:   %s,%s %d:%d\n", f.Unit, f.Zeros, f.IntegerDigits, f.DecimalDigits)
	}
	if whole {
		fmt.Fprintf(w, "  Plating:  %s (whole file)\n", fileType)
	}

	if program.IsEmpty() {
		warnColor.Fprintf(w, "  No drill commands found\n\n")
		return
	}

	fmt.Fprintf(w, "  Tools:    %d\n", len(program.Operations))
	for _, op := range program.Operations {
		fmt.Fprintf(w, "    T%02d  %8.5f mm  %-10s  %4d holes  %3d slots\n",
			op.Tool.ID, op.Tool.Diameter, op.Tool.HoleType, op.Holes(), op.Slots())

		if !showCommands {
			continue
		}
		for _, c := range op.Commands {
			if c.Kind == excellon.Slot {
				fmt.Fprintf(w, "        slot (%.5f, %.5f) -> (%.5f, %.5f)\n",
					c.Start.X, c.Start.Y, c.End.X, c.End.Y)
			} else {
				fmt.Fprintf(w, "        hole (%.5f, %.5f)\n", c.Start.X, c.Start.Y)
			}
		}
	}
	fmt.Fprintln(w)
}
