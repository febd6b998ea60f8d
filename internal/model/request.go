package model

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest distinguishes absent fields from empty ones; only
// non-nil fields are applied.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (r UpdateUserRequest) Patch() UserPatch {
	return UserPatch{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}
