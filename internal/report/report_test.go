package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/drillmerge/pkg/drill"
)

const altium = `M48
;FILE_FORMAT=2:5
METRIC,LZ
;TYPE=PLATED
T1F00S00C0.30000
T2F00S00C1.00000
;TYPE=NON_PLATED
T3F00S00C3.20000
%
T01
X0100000Y0100000
X0200000Y0100000
T02
G00X0500000Y0500000
M15
G01X0700000Y0500000
M16
T03
X1000000Y1000000
M30
`

func buildReport(t *testing.T) Report {
	t.Helper()
	inputs := []drill.Input{
		{Name: "Board.drl", Content: altium},
		{Name: "Board.tx2", Content: altium},
	}
	result := drill.Process(inputs, drill.DefaultOptions())
	now := time.Date(2024, 5, 17, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	return Build("run-1", inputs, result, now)
}

func TestBuild(t *testing.T) {
	r := buildReport(t)

	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, time.UTC, r.GeneratedAt.Location())
	assert.Equal(t, 7, r.GeneratedAt.Hour())

	require.Len(t, r.Inputs, 2)
	assert.Equal(t, FileSummary{Name: "Board.drl", Dialect: "Altium", Through: true, Tools: 3, Holes: 3, Slots: 1}, r.Inputs[0])
	assert.False(t, r.Inputs[1].Through)

	require.NotNil(t, r.PTH)
	assert.Equal(t, []ToolSummary{
		{Number: 1, Diameter: 0.3, Holes: 2},
		{Number: 2, Diameter: 1.0, Slots: 1},
	}, r.PTH.Tools)

	require.NotNil(t, r.NPTH)
	assert.Equal(t, []ToolSummary{{Number: 1, Diameter: 3.2, Holes: 1}}, r.NPTH.Tools)

	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "Board.tx2")
}

func TestEncode(t *testing.T) {
	r := buildReport(t)

	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf))

	out := buf.String()
	assert.Contains(t, out, "run_id: run-1\n")
	assert.Contains(t, out, "diameter_mm: 0.3\n")
	assert.Contains(t, out, "- name: Board.drl\n")

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Inputs, decoded.Inputs)
	assert.Equal(t, r.PTH, decoded.PTH)
	assert.True(t, r.GeneratedAt.Equal(decoded.GeneratedAt))
}

func TestEncodeOmitsMissingPrograms(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report{RunID: "x"}.Encode(&buf))
	assert.NotContains(t, buf.String(), "pth:")
	assert.NotContains(t, buf.String(), "warnings:")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "drill-report.yaml")
	require.NoError(t, buildReport(t).WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: run-1")
}
