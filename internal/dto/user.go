package dto

// CreateUserRequest represents payload for creating users from the admin panel.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin editor viewer"`
}

// UpdateUserRequest changes a user's display name or role.
type UpdateUserRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
	Role *string `json:"role" validate:"omitempty,oneof=admin editor viewer"`
}
