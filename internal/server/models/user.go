package models

// Roles recognized by the service.
const (
	RoleAdmin   = "ADMIN"
	RoleOfficer = "RECORDS_OFFICER"
)

// User is an authenticated staff account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	Role         string
}
