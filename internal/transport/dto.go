package transport

import "time"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_format"`
	Password string `json:"password" validate:"required"`
}

// UserLoginRequest is the body of POST /api/users/login. It only checks that
// both fields are present.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email_format"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin customer user"`
}

// UpdateUserRequest has no password, id or email fields, so those keys are
// dropped from update bodies.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role" validate:"omitnil,oneof=admin customer user"`
	IsActive *bool   `json:"is_active"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
	Description *string  `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=2"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"is_active"`
}

type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   string `json:"expires_in"`
}

type LoginResponse struct {
	User  LoginUser   `json:"user"`
	Token AccessToken `json:"token"`
}

type UserCreatedResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type DeletedResponse struct {
	ID string `json:"id"`
}
