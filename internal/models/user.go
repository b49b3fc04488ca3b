package models

import "time"

// User roles.
const (
	RoleDriver = "driver"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

// User is a platform account with an attached wallet balance.
type User struct {
	ID            int64     `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	FullName      string    `db:"full_name" json:"full_name"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Role          string    `db:"role" json:"role"`
	WalletBalance float64   `db:"wallet_balance" json:"wallet_balance"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
