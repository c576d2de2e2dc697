package users

// User maps one row of the users table. PasswordHash holds a bcrypt
// string and must never be serialized to clients.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
