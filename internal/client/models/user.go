package models

// UserRecord is the authenticated user as returned by GET /auth/me.
// It is replaced wholesale on every fetch and never patched.
type UserRecord struct {
	ID        ID        `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"admin"`
	CreatedAt Timestamp `json:"created_at"`
}

// Registration is the payload of POST /register/.
type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
