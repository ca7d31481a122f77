// Package match pairs lost reports with found reports that could be the
// same object.
package match

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

// Window is the largest gap, in whole days rounded up, between a lost and
// a found report that still counts as a match.
const Window = 7

// Match is a potential lost/found pair.
type Match struct {
	Key   string     `json:"key"`
	Lost  model.Item `json:"lost"`
	Found model.Item `json:"found"`
	Days  int        `json:"days"`
}

// Key identifies a lost/found pair.
func Key(lostID, foundID string) string {
	return "match-" + lostID + "-" + foundID
}

// Engine finds matches and remembers which pairs it has already reported.
// The zero value is not usable; use NewEngine.
type Engine struct {
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewEngine returns an engine with an empty seen set.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, seen: make(map[string]struct{})}
}

// Scan returns the matches in items not reported by an earlier Scan.
func (e *Engine) Scan(items []model.Item) []Match {
	all := Find(items, e.logger)

	e.mu.Lock()
	defer e.mu.Unlock()

	var fresh []Match
	for _, m := range all {
		if _, ok := e.seen[m.Key]; ok {
			continue
		}
		e.seen[m.Key] = struct{}{}
		fresh = append(fresh, m)
	}
	return fresh
}

// Seen reports whether the pair with key was already returned.
func (e *Engine) Seen(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.seen[key]
	return ok
}

// Reset forgets every reported pair.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.seen = make(map[string]struct{})
	e.mu.Unlock()
}

// Find returns every lost/found pair with the same non-empty category whose
// report dates are at most Window days apart. Pairs with an unparseable
// date are skipped. A nil logger discards the skip messages.
func Find(items []model.Item, logger *slog.Logger) []Match {
	var lost, found []model.Item
	for _, item := range items {
		switch item.Status {
		case model.ItemStatusLost:
			lost = append(lost, item)
		case model.ItemStatusFound:
			found = append(found, item)
		}
	}

	var out []Match
	for _, l := range lost {
		for _, f := range found {
			if l.Category == "" || l.Category != f.Category {
				continue
			}
			days, err := daysApart(l.Date, f.Date)
			if err != nil {
				if logger != nil {
					logger.Debug("skipping pair with bad date", "lost", l.ID, "found", f.ID, "error", err)
				}
				continue
			}
			if days <= Window {
				out = append(out, Match{Key: Key(l.ID, f.ID), Lost: l, Found: f, Days: days})
			}
		}
	}
	return out
}

func daysApart(a, b string) (int, error) {
	ta, err := model.ParseDate(a)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", a, err)
	}
	tb, err := model.ParseDate(b)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", b, err)
	}
	d := tb.Sub(ta)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(float64(d) / float64(24*time.Hour))), nil
}

// Notification builds the alert announcing m. It points at the found item.
func Notification(m Match) model.Notification {
	return model.Notification{
		Title:   "Potential Match Found!",
		Message: fmt.Sprintf("A %s was found that might match your lost %s.", m.Found.Category, m.Lost.Title),
		Type:    model.NotificationSuccess,
		ItemID:  m.Found.ID,
		Link:    model.ItemLink(m.Found.ID),
	}
}
