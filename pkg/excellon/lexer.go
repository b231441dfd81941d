package excellon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// WordLexer splits an Excellon body block into address words.
// A block such as "G00X1500Y-250" becomes G 00 X 1500 Y -250.
var WordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letter", Pattern: `[A-Za-z]`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

// Block is one body line made of address words
type Block struct {
	Words []*Word `parser:"@@*"`
}

// Word is a letter address with an optional numeric value
type Word struct {
	Letter string `parser:"@Letter"`
	Value  string `parser:"@Number?"`
}

// blockParser is built once at package init and only read afterwards
var blockParser = participle.MustBuild[Block](
	participle.Lexer(WordLexer),
	participle.Elide("Whitespace"),
)

// ParseBlock tokenizes a body line into address words.
// Lines with characters outside the word grammar ("METRIC,LZ", ";comment") return an error.
func ParseBlock(line string) (*Block, error) {
	block, err := blockParser.ParseString("", line)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	for _, w := range block.Words {
		w.Letter = strings.ToUpper(w.Letter)
	}
	return block, nil
}

// Is reports whether the block consists of exactly one word with the given letter and code,
// e.g. Is("M", 15) for "M15"
func (b *Block) Is(letter string, code int) bool {
	if len(b.Words) != 1 {
		return false
	}
	return b.Words[0].hasCode(letter, code)
}

// StartsWith reports whether the first word matches letter and code, e.g. "G01X..."
func (b *Block) StartsWith(letter string, code int) bool {
	if len(b.Words) == 0 {
		return false
	}
	return b.Words[0].hasCode(letter, code)
}

// Index returns the position of the first word matching letter and code, or -1
func (b *Block) Index(letter string, code int) int {
	for i, w := range b.Words {
		if w.hasCode(letter, code) {
			return i
		}
	}
	return -1
}

// ToolSelect returns the tool number of a bare "T<id>" block
func (b *Block) ToolSelect() (int, bool) {
	if len(b.Words) != 1 || b.Words[0].Letter != "T" {
		return 0, false
	}
	id, err := strconv.Atoi(b.Words[0].Value)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsCoordinate reports whether the block holds only X and/or Y words, at least one
func (b *Block) IsCoordinate() bool {
	if len(b.Words) == 0 {
		return false
	}
	for _, w := range b.Words {
		if (w.Letter != "X" && w.Letter != "Y") || w.Value == "" {
			return false
		}
	}
	return true
}

// Axes returns the raw X and Y tokens found in words; empty strings mean the axis is absent
func Axes(words []*Word) (x, y string) {
	for _, w := range words {
		switch w.Letter {
		case "X":
			if x == "" {
				x = w.Value
			}
		case "Y":
			if y == "" {
				y = w.Value
			}
		}
	}
	return x, y
}

func (w *Word) hasCode(letter string, code int) bool {
	if w.Letter != letter || w.Value == "" {
		return false
	}
	n, err := strconv.Atoi(w.Value)
	return err == nil && n == code
}
