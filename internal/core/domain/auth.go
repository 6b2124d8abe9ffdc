package domain

// Role defines a user's permission level within the organization
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// AuthContext contains the authenticated caller for a request.
// Authentication happens upstream; the core only re-checks role.
type AuthContext struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
	SessionID      string `json:"session_id"`
}

// IsAdmin checks if the authenticated user is an organization admin
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// TokenClaims represents the JWT token payload
type TokenClaims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
	SessionID      string `json:"session_id"`
	IssuedAt       int64  `json:"iat"`
	ExpiresAt      int64  `json:"exp"`
}
