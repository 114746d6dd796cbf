package model

import "time"

// Roles recognised by the identity collaborator.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User represents an account known to the identity collaborator.  The
// reservation core only ever sees the ID (as Reservation.UserID) and
// the contact fields used to prefill a booking.  When users live in
// MySQL each field corresponds to a column of the `users` table.
//
// Fields:
//  ID           – identifier (decimal string of users.id in MySQL).
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  Phone        – contact phone.
//  Role         – CUSTOMER or ADMIN.
//  PasswordHash – bcrypt hash; never serialised.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser carries registration input.  Password is plain text and is
// hashed by the user store.
type NewUser struct {
	Name     string
	Email    string
	Phone    string
	Role     string
	Password string
}
