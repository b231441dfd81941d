package drill

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

func op(id int, diameter float64, h excellon.HoleType, cmds ...excellon.Command) excellon.Operation {
	return excellon.Operation{
		Tool:     excellon.Tool{ID: id, Diameter: diameter, HoleType: h},
		Commands: cmds,
	}
}

func TestDiameterKey(t *testing.T) {
	tests := []struct {
		diameter  float64
		precision int
		want      int64
	}{
		{0.3, 5, 30000},
		{0.300004, 5, 30000},
		{0.300006, 5, 30001},
		{1.0, 0, 1},
		{0.29999, 3, 300},
		{3.2, 9, 3200000000},
	}

	for _, tt := range tests {
		got, err := DiameterKey(tt.diameter, tt.precision)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "DiameterKey(%v, %d)", tt.diameter, tt.precision)
	}

	_, err := DiameterKey(math.NaN(), DefaultPrecision)
	assert.Error(t, err)
	_, err = DiameterKey(1e300, DefaultPrecision)
	assert.Error(t, err)
}

func TestMergerSameDiameter(t *testing.T) {
	m := DefaultMerger()
	assert.True(t, m.SameDiameter(0.300001, 0.300004))
	assert.True(t, m.SameDiameter(0.3, 0.3))
	assert.False(t, m.SameDiameter(0.3, 0.30001))
	assert.False(t, m.SameDiameter(math.NaN(), math.NaN()))
	assert.False(t, m.SameDiameter(0.294, 0.296))

	coarse := Merger{Precision: 3}
	assert.True(t, coarse.SameDiameter(0.29999, 0.30001))
	assert.False(t, coarse.SameDiameter(0.3, 0.301))
}

func TestMergerValidate(t *testing.T) {
	assert.NoError(t, DefaultMerger().Validate())
	assert.NoError(t, Merger{Precision: 0}.Validate())
	assert.NoError(t, Merger{Precision: MaxPrecision}.Validate())
	assert.Error(t, Merger{Precision: -1}.Validate())
	assert.Error(t, Merger{Precision: MaxPrecision + 1}.Validate())
}

func TestMergeGroupsByDiameter(t *testing.T) {
	ops := []excellon.Operation{
		op(1, 0.3, excellon.Plated, excellon.NewHole(0, 0)),
		op(2, 0.5, excellon.Plated, excellon.NewHole(5, 5)),
		op(7, 0.3, excellon.Plated, excellon.NewHole(1, 1), excellon.NewSlot(1, 1, 2, 1)),
	}

	program := DefaultMerger().Merge(ops)
	require.NotNil(t, program)
	require.Len(t, program.Operations, 2)

	first := program.Operations[0]
	assert.Equal(t, 1, first.Tool.ID)
	assert.InDelta(t, 0.3, first.Tool.Diameter, 1e-9)
	assert.Equal(t, []excellon.Command{
		excellon.NewHole(0, 0),
		excellon.NewHole(1, 1),
		excellon.NewSlot(1, 1, 2, 1),
	}, first.Commands)

	second := program.Operations[1]
	assert.Equal(t, 2, second.Tool.ID)
	assert.InDelta(t, 0.5, second.Tool.Diameter, 1e-9)
	assert.Len(t, second.Commands, 1)
}

func TestMergeKeepsFirstSeenDiameter(t *testing.T) {
	program := DefaultMerger().Merge([]excellon.Operation{
		op(1, 0.300001, excellon.Plated, excellon.NewHole(0, 0)),
		op(1, 0.300004, excellon.Plated, excellon.NewHole(1, 0)),
	})
	require.NotNil(t, program)
	require.Len(t, program.Operations, 1)
	assert.Equal(t, 0.300001, program.Operations[0].Tool.Diameter)
	assert.Len(t, program.Operations[0].Commands, 2)
}

func TestMergeSortByDiameter(t *testing.T) {
	ops := []excellon.Operation{
		op(1, 0.8, excellon.Plated, excellon.NewHole(0, 0)),
		op(2, 0.3, excellon.Plated, excellon.NewHole(1, 1)),
		op(3, 1.2, excellon.Plated, excellon.NewHole(2, 2)),
	}

	inOrder := DefaultMerger().Merge(ops)
	require.NotNil(t, inOrder)
	assert.InDelta(t, 0.8, inOrder.Operations[0].Tool.Diameter, 1e-9)

	sorted := Merger{Precision: DefaultPrecision, SortByDiameter: true}.Merge(ops)
	require.NotNil(t, sorted)
	var diameters []float64
	for i, o := range sorted.Operations {
		assert.Equal(t, i+1, o.Tool.ID)
		diameters = append(diameters, o.Tool.Diameter)
	}
	assert.Equal(t, []float64{0.3, 0.8, 1.2}, diameters)
}

func TestMergeEmpty(t *testing.T) {
	m := DefaultMerger()
	assert.Nil(t, m.Merge(nil))
	assert.Nil(t, m.Merge([]excellon.Operation{op(1, 0.3, excellon.Plated)}))
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	cmds := make([]excellon.Command, 1, 8)
	cmds[0] = excellon.NewHole(0, 0)
	ops := []excellon.Operation{
		op(4, 0.3, excellon.Plated, cmds...),
		op(9, 0.3, excellon.Plated, excellon.NewHole(1, 1)),
	}

	program := DefaultMerger().Merge(ops)
	require.NotNil(t, program)
	require.Len(t, program.Operations[0].Commands, 2)

	assert.Len(t, ops[0].Commands, 1)
	assert.Equal(t, 4, ops[0].Tool.ID)
	assert.Equal(t, 9, ops[1].Tool.ID)
	// spare capacity of the first input must not receive the second group's commands
	assert.Equal(t, excellon.Command{}, cmds[:2][1])
}

func TestMergerSplit(t *testing.T) {
	a := excellon.Program{Operations: []excellon.Operation{
		op(1, 0.3, excellon.Plated, excellon.NewHole(0, 0)),
		op(2, 3.2, excellon.NonPlated, excellon.NewHole(10, 10)),
	}}
	b := excellon.Program{Operations: []excellon.Operation{
		op(1, 0.3, excellon.Plated, excellon.NewHole(1, 1)),
	}}

	pth, npth := DefaultMerger().Split([]excellon.Program{a, b})
	require.NotNil(t, pth)
	require.NotNil(t, npth)

	require.Len(t, pth.Operations, 1)
	assert.Len(t, pth.Operations[0].Commands, 2)
	require.Len(t, npth.Operations, 1)
	assert.Equal(t, excellon.NonPlated, npth.Operations[0].Tool.HoleType)

	pth, npth = DefaultMerger().Split([]excellon.Program{b})
	assert.NotNil(t, pth)
	assert.Nil(t, npth)
}

func TestMergeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genOps := gen.SliceOf(gen.IntRange(0, 5)).Map(func(picks []int) []excellon.Operation {
		diameters := []float64{0.3, 0.4, 0.8, 1.0, 3.2, 0.300001}
		ops := make([]excellon.Operation, len(picks))
		for i, p := range picks {
			ops[i] = op(i+1, diameters[p], excellon.Plated,
				excellon.NewHole(float64(i), 0),
				excellon.NewSlot(float64(i), 0, float64(i), 1))
		}
		return ops
	})

	properties.Property("merge conserves every command", prop.ForAll(
		func(ops []excellon.Operation) bool {
			want := 0
			for _, o := range ops {
				want += len(o.Commands)
			}
			program := DefaultMerger().Merge(ops)
			if program == nil {
				return want == 0
			}
			return program.CommandCount() == want
		},
		genOps,
	))

	properties.Property("output diameters are pairwise distinct and ids dense", prop.ForAll(
		func(ops []excellon.Operation) bool {
			m := DefaultMerger()
			program := m.Merge(ops)
			if program == nil {
				return len(ops) == 0
			}
			for i, a := range program.Operations {
				if a.Tool.ID != i+1 {
					return false
				}
				for _, b := range program.Operations[i+1:] {
					if m.SameDiameter(a.Tool.Diameter, b.Tool.Diameter) {
						return false
					}
				}
			}
			return true
		},
		genOps,
	))

	properties.TestingRun(t)
}
