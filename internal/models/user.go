package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a reviewer account. Its username is recorded as the actor of every
// approval decision the reviewer makes.
type User struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Actor is the identity written into the approval audit trail.
func (u *User) Actor() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
