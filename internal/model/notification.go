package model

import "time"

// Notification is a session-scoped alert shown to the logged-in user.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
	ItemID    string    `json:"item_id,omitempty"`
	Link      string    `json:"link,omitempty"`
}

// Notification types.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// ItemLink returns the dashboard path of an item.
func ItemLink(id string) string {
	return "/dashboard/item/" + id
}
