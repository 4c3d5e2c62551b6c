package models

import (
	"time"
)

// User roles. A fresh sign-in always starts as guest; only an admin moves
// anyone out of it.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleCherry = "cherry"
	RoleGuest  = "guest"
)

// User represents the users collection. The id is the identity provider's
// subject, not a generated one.
type User struct {
	ID         string     `bson:"_id" json:"id"`
	Email      string     `bson:"email" json:"email"`
	Name       string     `bson:"name" json:"name"`
	Role       string     `bson:"role" json:"role"`
	PhotoURL   string     `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
	ApprovedAt *time.Time `bson:"approved_at,omitempty" json:"approvedAt,omitempty"`
}

// Principal is the identity the auth layer extracts from a verified token.
// Role is deliberately absent: authorization always reads the stored user.
type Principal struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}
