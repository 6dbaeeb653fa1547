package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleUser     = "user"
)

// User is the caller-facing projection of a stored user. Password hashes only
// travel inside UserCredentials.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserCredentials struct {
	User
	PasswordHash string
}

type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
}

type UserPatch struct {
	Name     *string
	Role     *string
	IsActive *bool
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Price       float64   `json:"price"`
	Category    *string   `json:"category,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductPatch struct {
	Name        *string
	Slug        *string
	Price       *float64
	Category    *string
	Stock       *int
	Description *string
	IsActive    *bool
}
