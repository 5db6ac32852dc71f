package models

import "time"

// Auto-delete policy values shared by chats and user-level preferences.
const (
	AutoDeleteNever = "never"
	AutoDelete24h   = "24h"
	AutoDelete1w    = "1w"
	AutoDelete30d   = "30d"
)

// AutoDeleteWindow maps a policy string to its retention window.
// The second return is false for "never" and unknown values.
func AutoDeleteWindow(policy string) (time.Duration, bool) {
	switch policy {
	case AutoDelete24h:
		return 24 * time.Hour, true
	case AutoDelete1w:
		return 7 * 24 * time.Hour, true
	case AutoDelete30d:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// ValidAutoDeletePolicy reports whether the value is a known policy string.
func ValidAutoDeletePolicy(policy string) bool {
	switch policy {
	case AutoDeleteNever, AutoDelete24h, AutoDelete1w, AutoDelete30d:
		return true
	}
	return false
}

// Chat represents a private (2-participant) or group conversation.
type Chat struct {
	ID               int       `db:"id" json:"id"`
	IsGroup          bool      `db:"is_group" json:"is_group"`
	GroupName        *string   `db:"group_name" json:"group_name,omitempty"`
	GroupPhoto       *string   `db:"group_photo" json:"group_photo,omitempty"`
	GroupTheme       *string   `db:"group_theme" json:"group_theme,omitempty"`
	AdminID          *int      `db:"admin_id" json:"admin_id,omitempty"`
	AutoDeletePolicy string    `db:"auto_delete_policy" json:"auto_delete_policy"`
	PairKey          *string   `db:"pair_key" json:"-"`
	LastActivity     time.Time `db:"last_activity" json:"last_activity"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// IsAdmin reports whether userID holds the group admin identity.
func (c Chat) IsAdmin(userID int) bool {
	return c.IsGroup && c.AdminID != nil && *c.AdminID == userID
}

// ChatSummary is the API view of a chat with participant info resolved.
type ChatSummary struct {
	ChatID       int       `json:"chat_id"`
	IsGroup      bool      `json:"is_group"`
	GroupName    *string   `json:"group_name,omitempty"`
	Participants []User    `json:"participants"`
	LastActivity time.Time `json:"last_activity"`
}
