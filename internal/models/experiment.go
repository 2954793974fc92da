package models

import "strings"

// ExperimentDescriptor addresses one experiment's rows in the warehouse.
// TableID here is the bare table name; project and dataset arrive
// separately. MacAddress optionally restricts the scope to one device.
type ExperimentDescriptor struct {
	ProjectID      string `json:"project_id"`
	DatasetName    string `json:"dataset_name"`
	TableID        string `json:"table_id"`
	ExperimentName string `json:"experiment_name"`
	MacAddress     string `json:"mac_address,omitempty"`
}

// MissingFields lists the required addressing fields absent from the
// descriptor. An empty result means the descriptor is queryable.
func (d ExperimentDescriptor) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.ProjectID) == "" {
		missing = append(missing, "project_id")
	}
	if strings.TrimSpace(d.DatasetName) == "" {
		missing = append(missing, "dataset_name")
	}
	if strings.TrimSpace(d.TableID) == "" {
		missing = append(missing, "table_id")
	}
	if strings.TrimSpace(d.ExperimentName) == "" {
		missing = append(missing, "experiment_name")
	}
	return missing
}

// TimeRange bounds the event timestamps observed for one experiment scope.
// Both bounds are nil when the scope matched zero rows.
type TimeRange struct {
	FirstTimestamp *string `json:"first_timestamp"`
	LastTimestamp  *string `json:"last_timestamp"`
}

// ExperimentMetadata is the per-descriptor output of the metadata resolver.
// An empty AvailableSensors list is valid and means no sensor data exists
// for the scope, not an error.
type ExperimentMetadata struct {
	TableID          string    `json:"table_id"`
	ExperimentName   string    `json:"experiment_name"`
	MacAddress       string    `json:"mac_address"`
	TimeRange        TimeRange `json:"time_range"`
	AvailableSensors []string  `json:"available_sensors"`
}
