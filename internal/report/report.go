// Package report summarizes a drillmerge run as YAML
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/drillmerge/pkg/drill"
	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

// Report is the document written by --report
type Report struct {
	RunID       string          `yaml:"run_id"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Inputs      []FileSummary   `yaml:"inputs"`
	PTH         *ProgramSummary `yaml:"pth,omitempty"`
	NPTH        *ProgramSummary `yaml:"npth,omitempty"`
	Warnings    []string        `yaml:"warnings,omitempty"`
}

// FileSummary describes one input file
type FileSummary struct {
	Name    string `yaml:"name"`
	Dialect string `yaml:"dialect"`
	Through bool   `yaml:"through"`
	Tools   int    `yaml:"tools"`
	Holes   int    `yaml:"holes"`
	Slots   int    `yaml:"slots"`
}

// ProgramSummary lists the tools of one output program
type ProgramSummary struct {
	Tools []ToolSummary `yaml:"tools"`
}

// ToolSummary describes one output tool
type ToolSummary struct {
	Number   int     `yaml:"number"`
	Diameter float64 `yaml:"diameter_mm"`
	Holes    int     `yaml:"holes"`
	Slots    int     `yaml:"slots"`
}

// Build assembles a report for inputs and the result they produced
func Build(runID string, inputs []drill.Input, result drill.Result, now time.Time) Report {
	r := Report{
		RunID:       runID,
		GeneratedAt: now.UTC(),
		PTH:         summarize(result.PTHProgram),
		NPTH:        summarize(result.NPTHProgram),
		Warnings:    result.Warnings,
	}

	for _, in := range inputs {
		fs := FileSummary{Name: in.Name, Through: excellon.IsThroughDrill(in.Name)}
		program, dialect := excellon.Parse(in.Content)
		fs.Dialect = dialect.String()
		fs.Tools = len(program.Operations)
		for _, op := range program.Operations {
			fs.Holes += op.Holes()
			fs.Slots += op.Slots()
		}
		r.Inputs = append(r.Inputs, fs)
	}
	return r
}

func summarize(p *excellon.Program) *ProgramSummary {
	if p == nil {
		return nil
	}
	s := &ProgramSummary{}
	for i, op := range p.Operations {
		s.Tools = append(s.Tools, ToolSummary{
			Number:   i + 1,
			Diameter: op.Tool.Diameter,
			Holes:    op.Holes(),
			Slots:    op.Slots(),
		})
	}
	return s
}

// Encode writes the report as YAML
func (r Report) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the report to path
func (r Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	return r.Encode(f)
}
