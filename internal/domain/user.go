package domain

// User is a person known to the remote API.
type User struct {
	ID    int64     `json:"id"`
	Name  string    `json:"nombre"`
	Email string    `json:"email"`
	Role  Role      `json:"rol"`
	State UserState `json:"estado"`
}

// Active reports whether the account is enabled. An empty state is treated
// as active since older records never set it.
func (u User) Active() bool {
	return u.State == "" || u.State == UserActive
}

// Viewer is the actor operating a board. It is fixed for the lifetime of
// the board; a different identity or role needs a new board.
type Viewer struct {
	ID   int64
	Role Role
}

// Viewer returns the board identity for u.
func (u User) Viewer() Viewer {
	return Viewer{ID: u.ID, Role: u.Role}
}
