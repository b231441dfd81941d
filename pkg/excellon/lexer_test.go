package excellon

import (
	"testing"
)

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantWords []Word
		wantErr   bool
	}{
		{
			name:  "rapid move",
			input: "G00X100Y-200",
			wantWords: []Word{
				{Letter: "G", Value: "00"},
				{Letter: "X", Value: "100"},
				{Letter: "Y", Value: "-200"},
			},
		},
		{
			name:  "tool declaration",
			input: "T01F00S00C0.30000",
			wantWords: []Word{
				{Letter: "T", Value: "01"},
				{Letter: "F", Value: "00"},
				{Letter: "S", Value: "00"},
				{Letter: "C", Value: "0.30000"},
			},
		},
		{
			name:  "lowercase letters are upper-cased",
			input: "x1.5y.25",
			wantWords: []Word{
				{Letter: "X", Value: "1.5"},
				{Letter: "Y", Value: ".25"},
			},
		},
		{
			name:  "canonical slot",
			input: "X1.00000Y2.00000G85X3.00000Y2.00000",
			wantWords: []Word{
				{Letter: "X", Value: "1.00000"},
				{Letter: "Y", Value: "2.00000"},
				{Letter: "G", Value: "85"},
				{Letter: "X", Value: "3.00000"},
				{Letter: "Y", Value: "2.00000"},
			},
		},
		{
			name:    "unit directive with comma",
			input:   "METRIC,LZ",
			wantErr: true,
		},
		{
			name:    "comment",
			input:   ";TYPE=PLATED",
			wantErr: true,
		},
		{
			name:    "header terminator",
			input:   "%",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := ParseBlock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseBlock(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBlock(%q) unexpected error: %v", tt.input, err)
			}

			if len(block.Words) != len(tt.wantWords) {
				t.Fatalf("got %d words, want %d", len(block.Words), len(tt.wantWords))
			}
			for i, w := range block.Words {
				if *w != tt.wantWords[i] {
					t.Errorf("word %d = %+v, want %+v", i, *w, tt.wantWords[i])
				}
			}
		})
	}
}

func TestBlockPredicates(t *testing.T) {
	mustParse := func(s string) *Block {
		t.Helper()
		b, err := ParseBlock(s)
		if err != nil {
			t.Fatalf("ParseBlock(%q): %v", s, err)
		}
		return b
	}

	if !mustParse("M15").Is("M", 15) {
		t.Error("M15 should be M15")
	}
	if mustParse("M15X1").Is("M", 15) {
		t.Error("M15X1 is not a bare M15")
	}
	if !mustParse("G01X5").StartsWith("G", 1) {
		t.Error("G01X5 should start with G01")
	}
	if mustParse("G05").StartsWith("G", 0) {
		t.Error("G05 must not match G00")
	}

	if id, ok := mustParse("T07").ToolSelect(); !ok || id != 7 {
		t.Errorf("ToolSelect(T07) = %d, %v, want 7, true", id, ok)
	}
	if _, ok := mustParse("T01C0.3").ToolSelect(); ok {
		t.Error("tool declaration is not a tool select")
	}

	if !mustParse("X1Y2").IsCoordinate() {
		t.Error("X1Y2 should be a coordinate")
	}
	if !mustParse("Y2").IsCoordinate() {
		t.Error("Y2 alone should be a coordinate")
	}
	if mustParse("G01X1").IsCoordinate() {
		t.Error("G01X1 is not a bare coordinate")
	}

	b := mustParse("X1Y2G85X3Y4")
	if i := b.Index("G", 85); i != 2 {
		t.Errorf("Index(G85) = %d, want 2", i)
	}
	x, y := Axes(b.Words[3:])
	if x != "3" || y != "4" {
		t.Errorf("Axes after G85 = %q, %q, want 3, 4", x, y)
	}
}
