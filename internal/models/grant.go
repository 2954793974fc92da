package models

import (
	"fmt"
	"strings"
)

// Access roles carried by grant rows.
const (
	RoleAdmin = "admin"
	RoleRead  = "read"
)

// Grant is one row of the permission table. Role admin covers every
// experiment currently present in the referenced table; the experiment
// field of an admin row may be stale. A nil ValidUntil means no expiration.
type Grant struct {
	Email      string  `json:"email"`
	Owner      string  `json:"owner"`
	MacAddress string  `json:"mac_address"`
	Experiment string  `json:"experiment"`
	Role       string  `json:"role"`
	ValidFrom  *string `json:"valid_from"`
	ValidUntil *string `json:"valid_until"`
	CreatedAt  *string `json:"created_at"`
	TableID    string  `json:"table_id"`
}

// IsAdmin reports whether the grant is table-scoped.
func (g Grant) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(g.Role), RoleAdmin)
}

// TableRef is the parsed project.dataset.table addressing triple.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// ParseTableID splits a dotted table id into its three segments. Anything
// other than exactly three non-empty segments is rejected; a malformed id
// must never silently point at a placeholder table.
func ParseTableID(tableID string) (TableRef, error) {
	parts := strings.Split(strings.TrimSpace(tableID), ".")
	if len(parts) != 3 {
		return TableRef{}, fmt.Errorf("table id %q: want project.dataset.table", tableID)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return TableRef{}, fmt.Errorf("table id %q: empty segment", tableID)
		}
	}
	return TableRef{Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
}

// String reassembles the dotted triple.
func (r TableRef) String() string {
	return r.Project + "." + r.Dataset + "." + r.Table
}
