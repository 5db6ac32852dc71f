package models

import "time"

// User carries the profile fields this service reads. Account management
// lives elsewhere; this service only touches presence and preference fields.
type User struct {
	ID             int       `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	FullName       *string   `db:"full_name" json:"full_name,omitempty"`
	Age            *int      `db:"age" json:"age,omitempty"`
	Gender         *string   `db:"gender" json:"gender,omitempty"`
	City           *string   `db:"city" json:"city,omitempty"`
	ProfilePic     *string   `db:"profile_pic" json:"profile_pic,omitempty"`
	IsOnline       bool      `db:"is_online" json:"is_online"`
	LastSeen       time.Time `db:"last_seen" json:"last_seen"`
	AutoDeleteChat string    `db:"auto_delete_chat" json:"auto_delete_chat"`
	FCMToken       *string   `db:"fcm_token" json:"-"`
}

// DisplayName prefers the full name, falling back to the username.
func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}
