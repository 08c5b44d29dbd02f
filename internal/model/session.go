package model

// Identity is the authenticated user bound to the current session.
// The tracker is single-tenant: exactly one identity is ever valid.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
