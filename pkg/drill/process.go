// Package drill merges parsed Excellon drill programs from one or more EDA exports
// into a single plated and a single non-plated program and writes them in a fixed
// metric Excellon dialect.
package drill

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

// Input is one drill file: its original filename and its text
type Input struct {
	Name    string
	Content string
}

// Result holds the normalized programs. PTH and NPTH are nil when no holes of that
// class were found.
type Result struct {
	PTH      *string
	NPTH     *string
	Warnings []string

	PTHProgram  *excellon.Program
	NPTHProgram *excellon.Program
}

// Empty reports whether neither output was produced
func (r Result) Empty() bool {
	return r.PTH == nil && r.NPTH == nil
}

// Options controls a Process run
type Options struct {
	Merger Merger
	Header HeaderRenderer
	Logger *zap.Logger
}

// DefaultOptions returns options with the default merger and header and a no-op logger
func DefaultOptions() Options {
	return Options{
		Merger: DefaultMerger(),
		Header: DefaultHeader(),
		Logger: zap.NewNop(),
	}
}

// Validate checks the options and fills in missing collaborators
func (o *Options) Validate() error {
	if o.Header == nil {
		o.Header = DefaultHeader()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if err := o.Merger.Validate(); err != nil {
		return fmt.Errorf("merger: %w", err)
	}
	return nil
}

// classInputs collects what every file contributed to one plating class
type classInputs struct {
	ops     []excellon.Operation
	sources int
	direct  *excellon.Program // first KiCad file of the class, emitted as-is when alone
}

func (c *classInputs) add(ops []excellon.Operation, kicad bool) {
	if len(ops) == 0 {
		return
	}
	c.sources++
	c.ops = append(c.ops, ops...)
	if kicad && c.sources == 1 {
		c.direct = &excellon.Program{Operations: ops}
	}
}

// resolve returns the program for the class: the lone KiCad file untouched, or the
// diameter-merged union of every contributor
func (c *classInputs) resolve(m Merger) *excellon.Program {
	if c.sources == 1 && c.direct != nil {
		return renumber(c.direct)
	}
	return m.Merge(c.ops)
}

// Process parses every input, drops blind/buried via files with a warning, merges the
// rest by plating class and emits the two canonical programs. It never fails: anomalies
// become warnings and a Result is always returned.
func Process(inputs []Input, opts Options) Result {
	if err := opts.Validate(); err != nil {
		opts.Logger.Warn("invalid merge options, using defaults", zap.Error(err))
		opts.Merger = DefaultMerger()
	}
	log := opts.Logger

	var (
		result    Result
		plated    classInputs
		nonPlated classInputs
	)

	for _, in := range inputs {
		if !excellon.IsThroughDrill(in.Name) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Skipped blind/buried via file: %s. Only through holes are supported.", in.Name))
			log.Debug("skipped blind/buried via file", zap.String("file", in.Name))
			continue
		}

		dialect := excellon.Classify(in.Content)
		program, _, _ := excellon.ParserFor(dialect).Parse(in.Content)

		log.Debug("parsed drill file",
			zap.String("file", in.Name),
			zap.Stringer("dialect", dialect),
			zap.Int("tools", len(program.Operations)),
			zap.Int("commands", program.CommandCount()),
		)

		if program.IsEmpty() {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"No drill commands found in %s.", in.Name))
			continue
		}

		pthOps, npthOps := Partition(program)
		kicad := dialect == excellon.KiCad
		plated.add(pthOps, kicad)
		nonPlated.add(npthOps, kicad)
	}

	result.PTHProgram = plated.resolve(opts.Merger)
	result.NPTHProgram = nonPlated.resolve(opts.Merger)

	if result.PTHProgram != nil {
		text := Emit(result.PTHProgram, excellon.Plated, opts.Header)
		result.PTH = &text
	}
	if result.NPTHProgram != nil {
		text := Emit(result.NPTHProgram, excellon.NonPlated, opts.Header)
		result.NPTH = &text
	}

	log.Info("drill files merged",
		zap.Int("inputs", len(inputs)),
		zap.Int("pth_tools", toolCount(result.PTHProgram)),
		zap.Int("npth_tools", toolCount(result.NPTHProgram)),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result
}

// renumber copies a program with tool ids reassigned from 1
func renumber(p *excellon.Program) *excellon.Program {
	out := &excellon.Program{Operations: make([]excellon.Operation, len(p.Operations))}
	for i, op := range p.Operations {
		op.Tool.ID = i + 1
		out.Operations[i] = op
	}
	return out
}

func toolCount(p *excellon.Program) int {
	if p == nil {
		return 0
	}
	return len(p.Operations)
}
