package dto

// AuthRequest carries registration/login credentials. Role is only honored
// on registration and must be a self-service role.
type AuthRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role,omitempty"`
}
