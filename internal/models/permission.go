package models

// ResolvedPermission is one experiment-level entry produced by the
// permission resolver. An admin grant over a table with N experiments
// yields N entries sharing owner, table identifiers and valid_until but
// distinct experiment names.
type ResolvedPermission struct {
	Email          string  `json:"email"`
	Owner          string  `json:"owner"`
	ExperimentName string  `json:"experiment_name"`
	MacAddress     string  `json:"mac_address"`
	Role           string  `json:"role"`
	ValidUntil     *string `json:"valid_until"`
	ProjectID      string  `json:"project_id"`
	DatasetName    string  `json:"dataset_name"`
	TableID        string  `json:"table_id"`
	AccessLevel    string  `json:"access_level"`
	IsAdmin        bool    `json:"is_admin"`
}
