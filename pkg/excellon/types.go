package excellon

import "fmt"

// InchToMM converts inch coordinates and diameters to millimeters
const InchToMM = 25.4

// HoleType is the plating class of a drilled or routed hole
type HoleType int

const (
	Plated    HoleType = iota // PTH - plated through hole
	NonPlated                 // NPTH - non-plated through hole
)

func (h HoleType) String() string {
	switch h {
	case Plated:
		return "PLATED"
	case NonPlated:
		return "NON_PLATED"
	default:
		return fmt.Sprintf("HoleType(%d)", int(h))
	}
}

// Unit is the measurement unit declared in a drill file header
type Unit int

const (
	Metric Unit = iota
	Inch
)

func (u Unit) String() string {
	if u == Inch {
		return "INCH"
	}
	return "METRIC"
}

// ZeroSuppression selects how fixed-point coordinates without a decimal point are read
type ZeroSuppression int

const (
	LeadingZero  ZeroSuppression = iota // LZ - integer part has a fixed width
	TrailingZero                        // TZ - decimal part has a fixed width
)

func (z ZeroSuppression) String() string {
	if z == TrailingZero {
		return "TZ"
	}
	return "LZ"
}

// Point is an X/Y position in millimeters
type Point struct {
	X float64
	Y float64
}

// CommandKind distinguishes drilled holes from routed slots
type CommandKind int

const (
	Hole CommandKind = iota
	Slot
)

func (k CommandKind) String() string {
	if k == Slot {
		return "slot"
	}
	return "hole"
}

// Command is a single hole or slot. All coordinates are in millimeters.
// End is only meaningful for slots.
type Command struct {
	Kind  CommandKind
	Start Point
	End   Point
}

// NewHole returns a drill hit at (x, y)
func NewHole(x, y float64) Command {
	return Command{Kind: Hole, Start: Point{X: x, Y: y}}
}

// NewSlot returns a routed slot from (sx, sy) to (ex, ey)
func NewSlot(sx, sy, ex, ey float64) Command {
	return Command{
		Kind:  Slot,
		Start: Point{X: sx, Y: sy},
		End:   Point{X: ex, Y: ey},
	}
}

// Tool is a tool definition from a drill file header
type Tool struct {
	ID       int      // Source-local tool number
	Diameter float64  // Diameter in mm
	HoleType HoleType // Plating class
}

// Operation is one tool together with the commands drilled with it
type Operation struct {
	Tool     Tool
	Commands []Command
}

// Holes returns the number of drill hits in the operation
func (op Operation) Holes() int {
	n := 0
	for _, c := range op.Commands {
		if c.Kind == Hole {
			n++
		}
	}
	return n
}

// Slots returns the number of routed slots in the operation
func (op Operation) Slots() int {
	return len(op.Commands) - op.Holes()
}

// Program is a parsed drill file: one operation per tool actually used.
// Programs are treated as immutable once built.
type Program struct {
	Operations []Operation
}

// IsEmpty reports whether the program has no operations
func (p Program) IsEmpty() bool {
	return len(p.Operations) == 0
}

// CommandCount returns the total number of commands across all operations
func (p Program) CommandCount() int {
	n := 0
	for _, op := range p.Operations {
		n += len(op.Commands)
	}
	return n
}
