package drill

import (
	"fmt"
	"math"
	"sort"

	"fortio.org/safecast"

	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

// DefaultPrecision is the number of decimal places of a diameter (in mm) that must
// agree for two tools to be merged
const DefaultPrecision = 5

// MaxPrecision bounds Merger.Precision so diameter keys stay well inside int64
const MaxPrecision = 9

// Merger consolidates operations from several drill files into one program per plating class
type Merger struct {
	Precision      int  // Decimal places compared when grouping diameters
	SortByDiameter bool // Order output tools by ascending diameter instead of first appearance
}

// DefaultMerger returns a Merger comparing diameters at DefaultPrecision in input order
func DefaultMerger() Merger {
	return Merger{Precision: DefaultPrecision}
}

// Validate checks the merger settings
func (m Merger) Validate() error {
	if m.Precision < 0 || m.Precision > MaxPrecision {
		return fmt.Errorf("merge precision %d out of range [0, %d]", m.Precision, MaxPrecision)
	}
	return nil
}

// DiameterKey returns the grouping key of a diameter: round(d * 10^precision)
func DiameterKey(diameter float64, precision int) (int64, error) {
	key, err := safecast.Round[int64](diameter * math.Pow10(precision))
	if err != nil {
		return 0, fmt.Errorf("diameter %v has no merge key: %w", diameter, err)
	}
	return key, nil
}

// SameDiameter reports whether two diameters fall into the same merge group
func (m Merger) SameDiameter(a, b float64) bool {
	ka, errA := DiameterKey(a, m.Precision)
	kb, errB := DiameterKey(b, m.Precision)
	return errA == nil && errB == nil && ka == kb
}

// Partition splits the operations of a program by plating class
func Partition(p excellon.Program) (plated, nonPlated []excellon.Operation) {
	for _, op := range p.Operations {
		if op.Tool.HoleType == excellon.NonPlated {
			nonPlated = append(nonPlated, op)
		} else {
			plated = append(plated, op)
		}
	}
	return plated, nonPlated
}

// Split partitions the operations of all programs by plating class and merges each
// class by diameter. A class without operations yields nil.
func (m Merger) Split(programs []excellon.Program) (pth, npth *excellon.Program) {
	var plated, nonPlated []excellon.Operation
	for _, p := range programs {
		p1, p2 := Partition(p)
		plated = append(plated, p1...)
		nonPlated = append(nonPlated, p2...)
	}
	return m.Merge(plated), m.Merge(nonPlated)
}

// Merge groups operations sharing a diameter key. Commands are concatenated in input
// order and the diameter of the first operation of each group is kept. Output tools are
// renumbered from 1. Returns nil when no operation has commands.
func (m Merger) Merge(ops []excellon.Operation) *excellon.Program {
	type group struct {
		tool     excellon.Tool
		commands []excellon.Command
	}

	var groups []*group
	byKey := make(map[int64]*group)

	for _, op := range ops {
		if len(op.Commands) == 0 {
			continue
		}

		key, err := DiameterKey(op.Tool.Diameter, m.Precision)
		if err == nil {
			if g, ok := byKey[key]; ok {
				g.commands = append(g.commands, op.Commands...)
				continue
			}
		}

		g := &group{
			tool:     op.Tool,
			commands: append([]excellon.Command(nil), op.Commands...),
		}
		groups = append(groups, g)
		// A diameter without a key (NaN, overflow) stays a group of its own
		if err == nil {
			byKey[key] = g
		}
	}

	if len(groups) == 0 {
		return nil
	}

	if m.SortByDiameter {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].tool.Diameter < groups[j].tool.Diameter
		})
	}

	program := &excellon.Program{Operations: make([]excellon.Operation, len(groups))}
	for i, g := range groups {
		tool := g.tool
		tool.ID = i + 1
		program.Operations[i] = excellon.Operation{Tool: tool, Commands: g.commands}
	}
	return program
}
