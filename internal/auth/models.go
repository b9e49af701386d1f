package auth

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account-level identity. Real identity management lives
// outside this system; users here exist only to anchor bearer tokens and
// per-universe players.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
