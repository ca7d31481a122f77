// Package notify keeps the in-memory notification list of every logged-in
// session and turns item matches and item actions into notifications.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/model"
)

// subscriberBuffer is the channel capacity of a Subscribe feed. A full
// subscriber misses notifications rather than blocking Add.
const subscriberBuffer = 16

// Store is an ordered, newest-first notification list.
type Store struct {
	mu    sync.Mutex
	items []model.Notification
	subs  map[chan model.Notification]struct{}

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		subs: make(map[chan model.Notification]struct{}),
		now:  time.Now,
	}
}

// Add stores n as a new unread notification at the head of the list and
// returns it with its generated ID and timestamp.
func (s *Store) Add(n model.Notification) model.Notification {
	n.ID = uuid.NewString()
	n.Timestamp = s.now().UTC()
	n.Read = false

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.Insert(s.items, 0, n)
	for ch := range s.subs {
		select {
		case ch <- n:
		default:
		}
	}
	return n
}

// MarkRead flags one notification as read. It reports whether id exists.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flags every notification as read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		s.items[i].Read = true
	}
}

// Remove deletes one notification. It reports whether id existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(n model.Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Clear deletes every notification.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// List returns a copy of the notifications, newest first.
func (s *Store) List() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadCount is the number of notifications not yet read.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Subscribe returns a feed of notifications added from now on and a
// function that ends the subscription and closes the feed.
func (s *Store) Subscribe() (<-chan model.Notification, func()) {
	ch := make(chan model.Notification, subscriberBuffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

// Close ends every subscription.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}
