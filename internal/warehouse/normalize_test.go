package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnwrapSingleValueWrapper(t *testing.T) {
	got := Unwrap(map[string]any{"value": "2024-01-01"})
	require.Equal(t, "2024-01-01", got)
}

func TestUnwrapNestedStructure(t *testing.T) {
	got := Unwrap(map[string]any{
		"a": map[string]any{"value": "x"},
		"b": 3,
	})
	require.Equal(t, map[string]any{"a": "x", "b": 3}, got)
}

func TestUnwrapSlice(t *testing.T) {
	got := Unwrap([]any{map[string]any{"value": "x"}, 5})
	require.Equal(t, []any{"x", 5}, got)
}

func TestUnwrapLeavesMultiKeyMapsAlone(t *testing.T) {
	in := map[string]any{"value": "x", "unit": "C"}
	got := Unwrap(in)
	require.Equal(t, in, got)
}

func TestUnwrapIdempotent(t *testing.T) {
	inputs := []any{
		map[string]any{"value": "2024-01-01"},
		map[string]any{"a": map[string]any{"value": map[string]any{"value": "deep"}}},
		[]any{map[string]any{"value": 1.5}, "plain"},
		"scalar",
		nil,
	}
	for _, in := range inputs {
		once := Unwrap(in)
		require.Equal(t, once, Unwrap(once))
	}
}

func TestConvertKinds(t *testing.T) {
	require.True(t, Convert(nil).IsNull())
	require.Equal(t, KindString, Convert("abc").Kind)
	require.Equal(t, KindNumber, Convert(int64(7)).Kind)
	require.Equal(t, 7.0, Convert(int64(7)).Num)
	require.Equal(t, KindNumber, Convert(21.5).Kind)
	require.Equal(t, KindTimestamp, Convert(time.Unix(0, 0)).Kind)
	require.Equal(t, "true", Convert(true).Str)
}

func TestNormalizeRowUnwrapsAndTags(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := NormalizeRow(map[string]any{
		"experiment_name": "exp_a",
		"sensor_temp":     21.5,
		"valid_until":     map[string]any{"value": "2025-01-01T00:00:00Z"},
		"timestamp":       ts,
		"sensor_light":    nil,
	})

	require.Equal(t, String("exp_a"), row["experiment_name"])
	require.Equal(t, Number(21.5), row["sensor_temp"])
	require.Equal(t, String("2025-01-01T00:00:00Z"), row["valid_until"])
	require.Equal(t, Timestamp(ts), row["timestamp"])
	require.True(t, row["sensor_light"].IsNull())
}
