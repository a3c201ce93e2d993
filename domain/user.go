package domain

type UserID string

// User is the minimal display projection sourced from the identity side.
// The core holds it as a weak back-reference keyed by id and never owns it.
type User struct {
	ID       UserID
	Username string
	Avatar   string
}
