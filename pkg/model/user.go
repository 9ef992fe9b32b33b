package model

// User is the minimal projection of the externally managed user record
// this system consumes: identity, display fields and role.
type User struct {
	ID    string `bson:"_id,omitempty" json:"id,omitempty"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Role  string `bson:"role" json:"role"`
}

const RoleAdmin = "admin"
