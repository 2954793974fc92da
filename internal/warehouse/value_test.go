package warehouse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValueMarshalJSONPrimitives(t *testing.T) {
	payload, err := json.Marshal(Row{
		"name":      String("exp_a"),
		"reading":   Number(3.25),
		"taken_at":  Timestamp(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)),
		"sensor_ph": Null(),
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, "exp_a", decoded["name"])
	require.Equal(t, 3.25, decoded["reading"])
	require.Equal(t, "2024-01-05T12:00:00Z", decoded["taken_at"])
	require.Nil(t, decoded["sensor_ph"])
}

func TestValueAsString(t *testing.T) {
	require.Equal(t, "", Null().AsString())
	require.Equal(t, "exp", String("exp").AsString())
	require.Equal(t, "2024-01-01T00:00:00Z",
		Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).AsString())
}

func TestSafeIdent(t *testing.T) {
	for _, ok := range []string{"plant_data", "exp-2024", "Dataset1", "t$shard"} {
		got, err := SafeIdent(ok)
		require.NoError(t, err)
		require.Equal(t, ok, got)
	}
	for _, bad := range []string{"", "a.b", "tbl; DROP TABLE x", "name with space", "`tick`"} {
		_, err := SafeIdent(bad)
		require.ErrorIs(t, err, ErrBadIdentifier)
	}
}
