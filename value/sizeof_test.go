package value_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memkv/memkv/value"
)

func TestQuickSize_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    value.Value
		want int64
	}{
		{"nil is free", value.Nil(), 0},
		{"bool", value.Bool(true), 4},
		{"int", value.Int(123), 8},
		{"float", value.Float(1.5), 8},
		{"string charges two bytes per byte", value.String("abcde"), 10},
		{"bytes charge raw length", value.Bytes(make([]byte, 100)), 100},
		{"empty string", value.String(""), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, value.QuickSize(tt.v))
			// Scalars have no nesting, so both estimators agree.
			assert.Equal(t, tt.want, value.DeepSize(tt.v))
		})
	}
}

// The quick estimate never descends into container elements, so a list of
// large strings costs the same as a list of ints at the quick tier while
// the deep estimate tells them apart.
func TestQuickSize_ShallowContainers(t *testing.T) {
	t.Parallel()

	small := value.List(value.Int(1), value.Int(2))
	big := value.List(value.String(strings.Repeat("x", 1000)), value.String(strings.Repeat("y", 1000)))

	assert.Equal(t, value.QuickSize(small), value.QuickSize(big))
	assert.Greater(t, value.DeepSize(big), value.DeepSize(small))
	assert.Greater(t, value.DeepSize(big), value.QuickSize(big))
}

func TestDeepSize_RecursesWithOverhead(t *testing.T) {
	t.Parallel()

	// list(containerCost 16) + 2 slots (8 each) + two ints (8 each) = 48
	v := value.List(value.Int(1), value.Int(2))
	assert.Equal(t, int64(48), value.DeepSize(v))

	// map(16) + slot(8) + key "ab" (4) + string "xyz" (6) = 34
	m := value.Map(map[string]value.Value{"ab": value.String("xyz")})
	assert.Equal(t, int64(34), value.DeepSize(m))

	// Map keys are charged at the quick tier too.
	assert.Equal(t, int64(28), value.QuickSize(m))
}

func TestDeepSize_DepthCapTerminates(t *testing.T) {
	t.Parallel()

	// Self-referencing map: without the depth cap this would never return.
	m := map[string]value.Value{}
	m["self"] = value.Map(m)

	got := value.DeepSize(value.Map(m))
	assert.Positive(t, got)

	// A chain deeper than the cap is pruned: wrapping it further adds only
	// the wrapper's own overhead plus the fixed fallback charge.
	deep := value.Int(1)
	for i := 0; i < 30; i++ {
		deep = value.List(deep)
	}
	require.Positive(t, value.DeepSize(deep))
	// The innermost twenty levels collapse into one fallback charge, yet
	// the estimate stays monotone with the nesting above the cap.
	shallower := value.Int(1)
	for i := 0; i < 5; i++ {
		shallower = value.List(shallower)
	}
	assert.Greater(t, value.DeepSize(deep), value.DeepSize(shallower))
}

func TestEstimatorsNeverNegative(t *testing.T) {
	t.Parallel()

	vals := []value.Value{
		value.Nil(),
		value.String(""),
		value.Bytes(nil),
		value.List(),
		value.Map(nil),
		value.Map(map[string]value.Value{}),
	}
	for _, v := range vals {
		assert.GreaterOrEqual(t, value.QuickSize(v), int64(0))
		assert.GreaterOrEqual(t, value.DeepSize(v), int64(0))
	}
}

func BenchmarkDeepSize_Nested(b *testing.B) {
	items := make([]value.Value, 64)
	for i := range items {
		items[i] = value.Map(map[string]value.Value{
			"id":   value.Int(int64(i)),
			"name": value.String("item"),
			"tags": value.List(value.String("a"), value.String("b")),
		})
	}
	v := value.List(items...)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		value.DeepSize(v)
	}
}
