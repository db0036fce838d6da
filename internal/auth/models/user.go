package models

// User is a staff account. Passwords are stored as bcrypt hashes.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`
}
