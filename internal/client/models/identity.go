// Package models defines the client-side data model of FeedbackHub:
// the authenticated identity and feedback records with their inputs.
package models

import "strings"

// Role is the actor's authorization role as issued by the auth backend.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole normalises a role string from the wire. Unknown values yield "".
func ParseRole(s string) Role {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return ""
	}
	return r
}

// User is the public profile returned by /login and /register.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Identity is the authenticated actor together with its bearer token.
// It is persisted as one unit; a token without a user (or the reverse) is
// never stored.
type Identity struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Complete reports whether both halves of the identity are present.
func (i Identity) Complete() bool {
	return i.Token != "" && i.User.ID != "" && i.User.Role.Valid()
}
