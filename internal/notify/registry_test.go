package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/events"
	"github.com/erazemk/lostfound/internal/model"
)

type staticItems struct {
	items []model.Item
	err   error
}

func (s *staticItems) All(context.Context) ([]model.Item, error) {
	return s.items, s.err
}

func pair() []model.Item {
	return []model.Item{
		{ID: "1", Title: "Blue Backpack", Status: model.ItemStatusLost, Category: "Bags", Date: "2023-06-15"},
		{ID: "2", Title: "Backpack", Status: model.ItemStatusFound, Category: "Bags", Date: "2023-06-17"},
	}
}

func TestCenterScanNotifiesOnce(t *testing.T) {
	c := NewCenter(nil)

	assert.Equal(t, 1, c.Scan(pair()))
	assert.Equal(t, 0, c.Scan(pair()))

	list := c.Store.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Potential Match Found!", list[0].Title)
	assert.Equal(t, "2", list[0].ItemID)
}

func TestRegistrySessionsAreIndependent(t *testing.T) {
	src := &staticItems{items: pair()}
	r := NewRegistry(src, nil)
	ctx := context.Background()

	n, err := r.Scan(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = r.Scan(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "each session gets its own seen set")

	assert.Equal(t, 2, r.Len())
	r.Close("s1")
	assert.Nil(t, r.Get("s1"))

	// A new login starts from scratch.
	n, _ = r.Scan(ctx, "s1")
	assert.Equal(t, 1, n)
}

func TestRegistryScanError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(&staticItems{err: boom}, nil)

	_, err := r.Scan(context.Background(), "s1")
	assert.ErrorIs(t, err, boom)
}

func TestRegistryWatchRescansOnSave(t *testing.T) {
	src := &staticItems{items: pair()[:1]}
	r := NewRegistry(src, nil)
	bus := events.NewInProcess(nil)
	r.Watch(bus)
	ctx := context.Background()

	c := r.Open("s1")
	require.NoError(t, bus.Publish(ctx, events.Event{Key: events.ItemSaved, ItemID: "1"}))
	assert.Empty(t, c.Store.List())

	src.items = pair()
	require.NoError(t, bus.Publish(ctx, events.Event{Key: events.ItemSaved, ItemID: "2"}))
	assert.Len(t, c.Store.List(), 1)

	require.NoError(t, bus.Publish(ctx, events.Event{Key: events.ItemDeleted, ItemID: "2"}))
	assert.Len(t, c.Store.List(), 1)
}

func TestActionNotifications(t *testing.T) {
	item := &model.Item{ID: "7", Title: "Gold Watch", Status: model.ItemStatusFound}

	n := CommentAdded(item)
	assert.Equal(t, "New Comment", n.Title)
	assert.Equal(t, `You added a comment to "Gold Watch".`, n.Message)
	assert.Equal(t, model.NotificationInfo, n.Type)

	item.TrackingStatus = model.TrackingInProgress
	n = StatusChanged(item)
	assert.Equal(t, "Item Status Updated", n.Title)
	assert.Equal(t, `The status of "Gold Watch" has been updated to In Progress.`, n.Message)

	item.TrackingStatus = model.TrackingResolved
	n = StatusChanged(item)
	assert.Equal(t, "Item Resolved", n.Title)
	assert.Equal(t, `Your found item "Gold Watch" has been marked as resolved.`, n.Message)
	assert.Equal(t, model.NotificationSuccess, n.Type)
	assert.Equal(t, "/dashboard/item/7", n.Link)
}
