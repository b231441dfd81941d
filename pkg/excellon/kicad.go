package excellon

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// kicadToolPattern matches T1C0.800 tool declarations
var kicadToolPattern = regexp.MustCompile(`^T(\d+)C([\d.]+)`)

// KiCadParser reads KiCad Excellon exports. KiCad writes plain decimal coordinates
// and never mixes plated and non-plated holes in one file, so the plating class is
// decided once for the whole file.
type KiCadParser struct{}

// FileHoleType decides the plating class of a whole KiCad drill file
func FileHoleType(content string) HoleType {
	lower := cases.Lower(language.Und).String(content)
	if strings.Contains(lower, "nonplated") || strings.Contains(lower, "npth") {
		return NonPlated
	}
	return Plated
}

// Parse implements Parser
func (KiCadParser) Parse(content string) (Program, HoleType, bool) {
	holeType := FileHoleType(content)
	lines := splitLines(content)

	unit := Metric
	tools := make(map[int]Tool)
	for _, line := range headerLines(lines) {
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "INCH"):
			unit = Inch
		case strings.HasPrefix(upper, "METRIC"):
			unit = Metric
		}

		m := kicadToolPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		d, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			d = 0
		}
		tools[id] = Tool{ID: id, Diameter: Format{Unit: unit}.ToMM(d), HoleType: holeType}
	}

	format := Format{Unit: unit}
	decode := func(token string) float64 {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0
		}
		return format.ToMM(v)
	}

	return scanBody(bodyLines(lines), tools, decode), holeType, true
}

