package session

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the users table. PasswordHash is nil for accounts created
// through the self-service login flow; those accounts authenticate by email
// alone until an admin sets a password.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	Department   string    `db:"department" json:"department"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
