package users

type CreateUserPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=50" mod:"trim"`
	Email    *string `json:"email"    validate:"omitempty,email"       mod:"trim"`
	Password string  `json:"password" validate:"required,min=8"`
	RoleID   int     `json:"role_id"  validate:"required,gt=0"`
}

type UpdateUserPayload struct {
	Email    *string `json:"email"     validate:"omitempty,email" mod:"trim"`
	RoleID   *int    `json:"role_id"   validate:"omitempty,gt=0"`
	IsActive *bool   `json:"is_active"`
}

type ResetPasswordPayload struct {
	Password string `json:"password" validate:"required,min=8"`
}

type ListUsersQuery struct {
	Page int `query:"page" validate:"omitempty,gt=0" default:"1"`
}
