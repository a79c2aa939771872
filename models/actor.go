package models

// Actor is the authenticated identity attached to every request. Repositories
// use it to scope queries to rows the actor owns.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor bypasses ownership scoping.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
