package models

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// User is a registered account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt,omitzero"`
}

// Summary returns the listing view of the user, without timestamps.
func (u User) Summary() User {
	u.Password = ""
	u.CreatedAt = time.Time{}
	u.UpdatedAt = time.Time{}
	return u
}

// UserUpdate carries the optional fields of a profile update.
type UserUpdate struct {
	Email    *string
	Username *string
	Role     *Role
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Username == nil && u.Role == nil
}
