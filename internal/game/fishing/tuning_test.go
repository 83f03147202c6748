package fishing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_PartialOverride(t *testing.T) {
	t.Parallel()

	base := DefaultTuning()
	override := Tuning{
		Tension: TensionTuning{DecayPerSec: 30},
		Jerk:    JerkTuning{DurationMs: []float64{100, 200}},
	}

	got, err := Merge(base, override)
	require.NoError(t, err)

	assert.Equal(t, 30.0, got.Tension.DecayPerSec)
	assert.Equal(t, base.Tension.FillTimeAt1, got.Tension.FillTimeAt1, "untouched sibling keeps base value")
	assert.Equal(t, base.Tension.CurveAlpha, got.Tension.CurveAlpha)
	assert.Equal(t, []float64{100, 200}, got.Jerk.DurationMs)
	assert.Equal(t, base.Jerk.MaxAdd, got.Jerk.MaxAdd)
	assert.Equal(t, base.Speeds, got.Speeds)

	// The base table is never mutated.
	assert.Equal(t, DefaultTuning(), base)
}

func TestMerge_EmptyOverrideKeepsBase(t *testing.T) {
	t.Parallel()

	got, err := Merge(DefaultTuning(), Tuning{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), got)
}

func TestMerge_ResultDoesNotAliasOverride(t *testing.T) {
	t.Parallel()

	override := Tuning{Jerk: JerkTuning{DurationMs: []float64{100, 200}}}
	got, err := Merge(DefaultTuning(), override)
	require.NoError(t, err)

	override.Jerk.DurationMs[0] = 999
	assert.Equal(t, 100.0, got.Jerk.DurationMs[0])
}

func TestMergeYAML(t *testing.T) {
	t.Parallel()

	doc := []byte(`
tension:
  decay_per_sec: 0
jerk:
  duration_ms: [100, 300]
slip:
  base: 0.2
`)
	base := DefaultTuning()
	got, err := MergeYAML(base, doc)
	require.NoError(t, err)

	assert.Zero(t, got.Tension.DecayPerSec, "YAML overrides may set zero")
	assert.Equal(t, base.Tension.FillTimeAt1, got.Tension.FillTimeAt1)
	assert.Equal(t, []float64{100, 300}, got.Jerk.DurationMs)
	assert.Equal(t, 0.2, got.Slip.Base)
	assert.Equal(t, base.Slip.ByHookQuality, got.Slip.ByHookQuality)
	assert.Equal(t, base.Fight, got.Fight)
	assert.Equal(t, DefaultTuning(), base)
}

func TestMergeYAML_Invalid(t *testing.T) {
	t.Parallel()

	base := DefaultTuning()
	_, err := MergeYAML(base, []byte("tension: [not, a, mapping]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing tuning override")
}
