package drill

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

// LayerFor returns the output layer name for a plating class
func LayerFor(h excellon.HoleType) string {
	if h == excellon.NonPlated {
		return LayerNPTH
	}
	return LayerPTH
}

// Emit writes a program as metric, leading-zero Excellon with five-decimal coordinates.
// Tools are numbered densely from 1 in program order; slots are written as G85 lines.
func Emit(program *excellon.Program, holeType excellon.HoleType, header HeaderRenderer) string {
	var b strings.Builder

	if header != nil {
		b.WriteString(header.RenderDrillHeader(holeType.String(), LayerFor(holeType)))
	}

	b.WriteString("M48\n")
	b.WriteString("METRIC,LZ,0000.00000\n")

	var ops []excellon.Operation
	if program != nil {
		for _, op := range program.Operations {
			if len(op.Commands) > 0 {
				ops = append(ops, op)
			}
		}
	}

	for i, op := range ops {
		fmt.Fprintf(&b, ";Hole size %d = %.5f METRIC\n", i+1, op.Tool.Diameter)
		fmt.Fprintf(&b, "T%02dC%.5f\n", i+1, op.Tool.Diameter)
	}

	b.WriteString("%\n")
	b.WriteString("G05\n")
	b.WriteString("G90\n")

	for i, op := range ops {
		fmt.Fprintf(&b, "T%02d\n", i+1)
		for _, c := range op.Commands {
			switch c.Kind {
			case excellon.Slot:
				fmt.Fprintf(&b, "X%.5fY%.5fG85X%.5fY%.5f\n", c.Start.X, c.Start.Y, c.End.X, c.End.Y)
			default:
				fmt.Fprintf(&b, "X%.5fY%.5f\n", c.Start.X, c.Start.Y)
			}
		}
	}

	b.WriteString("M30\n")
	return b.String()
}
