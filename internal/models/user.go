package models

// User is a researcher account row from the warehouse user table.
// The portal keeps no session state; a user record is returned to the
// client once at login and never persisted locally.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Owner string `json:"owner,omitempty"`
}
