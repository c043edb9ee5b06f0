package entity

// Role is an authorization role tag attached to a user.
// Stored in the user_roles side table, one row per tag.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)
