package notify

import (
	"fmt"
	"log/slog"

	"github.com/erazemk/lostfound/internal/match"
	"github.com/erazemk/lostfound/internal/model"
)

// Center is the notification state of one login session: its list and the
// match engine that remembers which pairs were already announced.
type Center struct {
	Store  *Store
	Engine *match.Engine
}

// NewCenter returns an empty center.
func NewCenter(logger *slog.Logger) *Center {
	return &Center{Store: NewStore(), Engine: match.NewEngine(logger)}
}

// Scan checks items for new matches and adds a notification for each. It
// returns the number added.
func (c *Center) Scan(items []model.Item) int {
	matches := c.Engine.Scan(items)
	for _, m := range matches {
		c.Store.Add(match.Notification(m))
	}
	return len(matches)
}

// CommentAdded is the notification for a comment the user posted.
func CommentAdded(item *model.Item) model.Notification {
	return model.Notification{
		Title:   "New Comment",
		Message: fmt.Sprintf("You added a comment to %q.", item.Title),
		Type:    model.NotificationInfo,
		ItemID:  item.ID,
		Link:    model.ItemLink(item.ID),
	}
}

// StatusChanged is the notification for a tracking status change. Resolving
// an item gets its own message.
func StatusChanged(item *model.Item) model.Notification {
	if item.TrackingStatus == model.TrackingResolved {
		return model.Notification{
			Title:   "Item Resolved",
			Message: fmt.Sprintf("Your %s item %q has been marked as resolved.", item.Status, item.Title),
			Type:    model.NotificationSuccess,
			ItemID:  item.ID,
			Link:    model.ItemLink(item.ID),
		}
	}
	return model.Notification{
		Title:   "Item Status Updated",
		Message: fmt.Sprintf("The status of %q has been updated to %s.", item.Title, item.TrackingStatus),
		Type:    model.NotificationInfo,
		ItemID:  item.ID,
		Link:    model.ItemLink(item.ID),
	}
}
