package numnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_NativeScalarsPassThrough(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, "hello", Normalize("hello"))
	assert.Equal(t, true, Normalize(true))
	assert.Equal(t, 3.14, Normalize(3.14))
}

func TestNormalize_NumericWidening(t *testing.T) {
	assert.Equal(t, float64(1.5), Normalize(float32(1.5)))
	assert.Equal(t, int64(42), Normalize(int(42)))
	assert.Equal(t, int64(7), Normalize(int8(7)))
	assert.Equal(t, int64(7), Normalize(int16(7)))
	assert.Equal(t, int64(7), Normalize(int32(7)))
	assert.Equal(t, int64(7), Normalize(int64(7)))
	assert.Equal(t, int64(7), Normalize(uint(7)))
	assert.Equal(t, int64(7), Normalize(uint8(7)))
	assert.Equal(t, int64(7), Normalize(uint16(7)))
	assert.Equal(t, int64(7), Normalize(uint32(7)))
	assert.Equal(t, int64(7), Normalize(uint64(7)))
}

func TestNormalize_MapStringAnyIsNormalizedRecursively(t *testing.T) {
	in := map[string]any{"score": float32(0.9), "count": int32(3)}
	out := Normalize(in).(map[string]any)
	assert.Equal(t, float64(0.9), out["score"])
	assert.Equal(t, int64(3), out["count"])
}

func TestNormalize_SliceAnyIsNormalizedRecursively(t *testing.T) {
	in := []any{float32(1.0), int8(2), "three"}
	out := Normalize(in).([]any)
	assert.Equal(t, []any{float64(1.0), int64(2), "three"}, out)
}

type namedFloat float32

func TestNormalize_NamedNumericTypeViaReflection(t *testing.T) {
	assert.Equal(t, float64(2.5), Normalize(namedFloat(2.5)))
}

func TestNormalize_PointerIsDereferenced(t *testing.T) {
	v := float32(9.5)
	assert.Equal(t, float64(9.5), Normalize(&v))
}

func TestNormalize_NilPointerBecomesNil(t *testing.T) {
	var p *float32
	assert.Nil(t, Normalize(p))
}

func TestNormalize_TypedSliceBecomesAnySlice(t *testing.T) {
	in := []float32{1, 2, 3}
	out := Normalize(in).([]any)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, out)
}

func TestNormalize_TypedMapBecomesStringKeyedMap(t *testing.T) {
	in := map[string]float32{"a": 1, "b": 2}
	out := Normalize(in).(map[string]any)
	assert.Equal(t, float64(1), out["a"])
	assert.Equal(t, float64(2), out["b"])
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func TestNormalize_StructIsReturnedUnchanged(t *testing.T) {
	in := point{X: 1, Y: 2}
	out := Normalize(in)
	assert.Equal(t, in, out)
}

func TestNormalize_NestedStructuresAreFullyNormalized(t *testing.T) {
	in := map[string]any{
		"mentions": []any{
			map[string]any{"confidence": float32(0.8)},
			map[string]any{"confidence": float32(0.6)},
		},
	}
	out := Normalize(in).(map[string]any)
	mentions := out["mentions"].([]any)
	assert.Equal(t, float64(0.8), mentions[0].(map[string]any)["confidence"])
	assert.Equal(t, float64(0.6), mentions[1].(map[string]any)["confidence"])
}
