package domain

import "time"

// User is an account that can write reviews and wish for drinks.
type User struct {
	ID           string    `json:"id"`
	PasswordHash string    `json:"-"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
