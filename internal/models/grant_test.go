package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTableID(t *testing.T) {
	ref, err := ParseTableID("proj.ds.tbl")
	require.NoError(t, err)
	require.Equal(t, TableRef{Project: "proj", Dataset: "ds", Table: "tbl"}, ref)
	require.Equal(t, "proj.ds.tbl", ref.String())
}

func TestParseTableIDRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "tbl", "ds.tbl", "a.b.c.d", "proj..tbl", " . . "} {
		_, err := ParseTableID(bad)
		require.Error(t, err, "table id %q should be rejected", bad)
	}
}

func TestGrantIsAdmin(t *testing.T) {
	require.True(t, Grant{Role: "admin"}.IsAdmin())
	require.True(t, Grant{Role: " Admin "}.IsAdmin())
	require.False(t, Grant{Role: "read"}.IsAdmin())
	require.False(t, Grant{}.IsAdmin())
}

func TestDescriptorMissingFields(t *testing.T) {
	full := ExperimentDescriptor{
		ProjectID:      "proj",
		DatasetName:    "ds",
		TableID:        "tbl",
		ExperimentName: "exp_a",
	}
	require.Empty(t, full.MissingFields())

	noTable := full
	noTable.TableID = ""
	require.Equal(t, []string{"table_id"}, noTable.MissingFields())

	require.Len(t, ExperimentDescriptor{}.MissingFields(), 4)
}

func TestExperimentMetadataSerializesEveryField(t *testing.T) {
	meta := ExperimentMetadata{
		TableID:          "proj.ds.tbl",
		ExperimentName:   "exp_a",
		AvailableSensors: []string{},
	}

	encoded, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	// mac_address stays present even when no device scope was given.
	for _, key := range []string{"table_id", "experiment_name", "mac_address", "time_range", "available_sensors"} {
		require.Contains(t, decoded, key)
	}
	require.Equal(t, "", decoded["mac_address"])
	require.Equal(t, []any{}, decoded["available_sensors"])
}
