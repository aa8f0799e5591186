package users

import "time"

// User is an account that owns folders and files. PasswordHash is empty for
// accounts created through OAuth.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
