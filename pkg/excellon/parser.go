package excellon

import (
	"sort"
	"strings"
)

// Parser turns the text of one drill file into a Program.
//
// The returned HoleType is meaningful only when the bool is true: dialects that
// decide plating for the whole file (KiCad) report it, per-tool dialects do not.
type Parser interface {
	Parse(content string) (Program, HoleType, bool)
}

// ParserFor returns the parser for a dialect. Unknown content is read as generic Excellon.
func ParserFor(d Dialect) Parser {
	if d == KiCad {
		return KiCadParser{}
	}
	return GenericParser{}
}

// Parse classifies content and parses it with the matching dialect parser
func Parse(content string) (Program, Dialect) {
	dialect := Classify(content)
	program, _, _ := ParserFor(dialect).Parse(content)
	return program, dialect
}

// splitLines returns trimmed lines, tolerating CRLF input
func splitLines(content string) []string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// isHeaderEnd reports whether a line terminates the header (rewind-stop or end-of-header)
func isHeaderEnd(line string) bool {
	return line == "%" || strings.EqualFold(line, "M95")
}

// headerLines returns the lines before the header terminator
func headerLines(lines []string) []string {
	for i, l := range lines {
		if isHeaderEnd(l) {
			return lines[:i]
		}
	}
	return lines
}

// bodyLines returns the lines after the header terminator, or nil if there is none
func bodyLines(lines []string) []string {
	for i, l := range lines {
		if isHeaderEnd(l) {
			return lines[i+1:]
		}
	}
	return nil
}

// scanState is the sequential state threaded through the body pass
type scanState struct {
	route   routeTracker
	tool    int
	hasTool bool
}

// scanBody runs the command pass shared by all dialects and returns the operations of
// every tool that received at least one command, in ascending tool order
func scanBody(body []string, tools map[int]Tool, decode func(string) float64) Program {
	commands := make(map[int][]Command, len(tools))
	var st scanState

	emit := func(c Command) {
		if st.hasTool {
			commands[st.tool] = append(commands[st.tool], c)
		}
	}

	for _, line := range body {
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		block, err := ParseBlock(line)
		if err != nil || len(block.Words) == 0 {
			continue
		}

		if block.Is("M", 30) {
			break
		}

		if id, ok := block.ToolSelect(); ok {
			_, st.hasTool = tools[id]
			st.tool = id
			continue
		}

		switch {
		case block.StartsWith("G", 0):
			x, y := Axes(block.Words[1:])
			st.route.moveTo(x, y, decode)

		case block.Is("M", 15):
			st.route.plunge()

		case block.Is("M", 16):
			st.route.retract()

		case st.route.routing && block.StartsWith("G", 1):
			x, y := Axes(block.Words[1:])
			emit(st.route.routeTo(x, y, decode))

		case block.Index("G", 85) > 0:
			// Canonical slot: X<sx>Y<sy>G85X<ex>Y<ey>
			i := block.Index("G", 85)
			sx, sy := Axes(block.Words[:i])
			ex, ey := Axes(block.Words[i+1:])
			st.route.moveTo(sx, sy, decode)
			emit(st.route.routeTo(ex, ey, decode))

		case block.IsCoordinate():
			x, y := Axes(block.Words)
			if st.route.routing {
				st.route.moveTo(x, y, decode)
				continue
			}
			emit(st.route.hit(x, y, decode))
		}
	}

	ids := make([]int, 0, len(commands))
	for id, cmds := range commands {
		if len(cmds) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	program := Program{Operations: make([]Operation, 0, len(ids))}
	for _, id := range ids {
		program.Operations = append(program.Operations, Operation{
			Tool:     tools[id],
			Commands: commands[id],
		})
	}
	return program
}
