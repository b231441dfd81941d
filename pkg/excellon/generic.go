package excellon

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// fileFormatPattern matches ;FILE_FORMAT=2:5 (integer:decimal digits)
	fileFormatPattern = regexp.MustCompile(`FILE_FORMAT=(\d+):(\d+)`)

	// genericToolPattern matches T01F00S00C0.30000 tool declarations; feed and speed are optional
	genericToolPattern = regexp.MustCompile(`^T(\d+)(?:F\d+)?(?:S\d+)?C([\d.]+)`)
)

// GenericParser reads Altium Designer and other generic Excellon exports.
// Coordinates follow the FILE_FORMAT and LZ/TZ declarations of the header;
// plating is taken per tool from TYPE=PLATED / TYPE=NON_PLATED markers.
type GenericParser struct{}

// Header holds what the first pass learns from a generic drill header
type Header struct {
	Format Format
	Tools  map[int]Tool
}

// ParseHeader runs the header pass over a generic drill file
func (GenericParser) ParseHeader(content string) Header {
	return parseGenericHeader(headerLines(splitLines(content)))
}

// Parse implements Parser
func (p GenericParser) Parse(content string) (Program, HoleType, bool) {
	lines := splitLines(content)
	hdr := parseGenericHeader(headerLines(lines))
	program := scanBody(bodyLines(lines), hdr.Tools, hdr.Format.Decode)
	return program, Plated, false
}

func parseGenericHeader(lines []string) Header {
	hdr := Header{
		Format: DefaultFormat(),
		Tools:  make(map[int]Tool),
	}
	current := Plated

	for _, line := range lines {
		upper := strings.ToUpper(line)

		if strings.HasPrefix(upper, "INCH") || strings.HasPrefix(upper, "METRIC") {
			if strings.HasPrefix(upper, "INCH") {
				hdr.Format.Unit = Inch
			} else {
				hdr.Format.Unit = Metric
			}
			if strings.Contains(upper, "LZ") {
				hdr.Format.Zeros = LeadingZero
			} else if strings.Contains(upper, "TZ") {
				hdr.Format.Zeros = TrailingZero
			}
		}

		if m := fileFormatPattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				hdr.Format.IntegerDigits = n
			}
			if n, err := strconv.Atoi(m[2]); err == nil {
				hdr.Format.DecimalDigits = n
			}
		}

		if strings.Contains(line, "TYPE=NON_PLATED") {
			current = NonPlated
		} else if strings.Contains(line, "TYPE=PLATED") {
			current = Plated
		}

		if m := genericToolPattern.FindStringSubmatch(line); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			d, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				d = 0
			}
			hdr.Tools[id] = Tool{
				ID:       id,
				Diameter: hdr.Format.ToMM(d),
				HoleType: current,
			}
		}
	}

	return hdr
}
