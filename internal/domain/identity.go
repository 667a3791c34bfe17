package domain

// Role is the role claim carried by an authenticated identity
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "SELLER"
	RoleUser   Role = "USER"
)

// Identity is the caller resolved from the identity provider.
// A nil *Identity means the caller is anonymous.
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// HasRole reports whether the identity carries the given role claim
func (i *Identity) HasRole(role Role) bool {
	return i != nil && i.Role == role
}
