package excellon

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dialect is the EDA flavour a drill file was exported from
type Dialect int

const (
	Unknown Dialect = iota
	Altium
	KiCad
)

func (d Dialect) String() string {
	switch d {
	case Altium:
		return "Altium"
	case KiCad:
		return "KiCad"
	default:
		return "Unknown"
	}
}

// altiumToolPattern matches Altium tool declarations such as T01F00S00C0.30000
var altiumToolPattern = regexp.MustCompile(`(?m)^\s*T(\d+)F(\d+)S(\d+)C([\d.]+)`)

// blindViaExtensions are layer-pair drill files for blind and buried vias
var blindViaExtensions = []string{".tx1", ".tx2", ".tx3", ".tx4", ".tx5", ".tx6"}

// Classify detects the dialect of drill file content
func Classify(content string) Dialect {
	lower := cases.Lower(language.Und).String(content)

	switch {
	case strings.Contains(lower, "kicad"):
		return KiCad
	case altiumToolPattern.MatchString(content):
		return Altium
	case strings.Contains(lower, "altium"):
		return Altium
	default:
		return Unknown
	}
}

// IsDrillFile reports whether a filename looks like a drill file export
func IsDrillFile(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	ext := filepath.Ext(lower)

	switch {
	case ext == ".drl":
		return true
	case ext == ".txt":
		return strings.Contains(lower, "hole") || strings.Contains(lower, "drill")
	default:
		return isBlindViaFile(lower)
	}
}

// IsThroughDrill reports whether a drill file holds through holes.
// Altium .tx1-.tx6 layer-pair files hold blind/buried vias and are not through drills.
func IsThroughDrill(name string) bool {
	return !isBlindViaFile(strings.ToLower(name))
}

func isBlindViaFile(lower string) bool {
	for _, ext := range blindViaExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
