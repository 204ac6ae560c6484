package users

import "time"

// User is an end user identified by their normalized channel address.
type User struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	IsPremium   bool      `json:"isPremium"`
	CreatedAt   time.Time `json:"createdAt"`
	LastActive  time.Time `json:"lastActive"`
}
