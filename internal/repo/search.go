package repo

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/erazemk/lostfound/internal/model"
)

// Filter narrows an item listing. Zero values match everything.
type Filter struct {
	// Query is matched case-insensitively against title, description and location.
	Query string
	// Categories keeps items whose category is one of these.
	Categories []string
	// Tracking keeps items whose tracking status is one of these.
	Tracking []string
	// Status is "lost", "found" or empty for both.
	Status string
}

// Match reports whether item passes every criterion of the filter.
func (f Filter) Match(item *model.Item) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(item.Title), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) &&
			!strings.Contains(strings.ToLower(item.Location), q) {
			return false
		}
	}
	if len(f.Categories) > 0 && (item.Category == "" || !slices.Contains(f.Categories, item.Category)) {
		return false
	}
	if len(f.Tracking) > 0 && (item.TrackingStatus == "" || !slices.Contains(f.Tracking, item.TrackingStatus)) {
		return false
	}
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	return true
}

// Search returns the items matching f.
func (r *Items) Search(ctx context.Context, f Filter) ([]model.Item, error) {
	var (
		items []model.Item
		err   error
	)
	if f.Status != "" {
		items, err = r.ByStatus(ctx, f.Status)
	} else {
		items, err = r.All(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]model.Item, 0, len(items))
	for i := range items {
		if f.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// CategoryCount is one bar of the category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarises the item collection for the overview page.
type Stats struct {
	Total          int             `json:"total"`
	Lost           int             `json:"lost"`
	Found          int             `json:"found"`
	Open           int             `json:"open"`
	InProgress     int             `json:"in_progress"`
	Resolved       int             `json:"resolved"`
	ResolutionRate int             `json:"resolution_rate"`
	TopCategories  []CategoryCount `json:"top_categories"`
	Recent         []model.Item    `json:"recent"`
}

// Stats computes the overview figures. ResolutionRate is a rounded percentage.
func (r *Items) Stats(ctx context.Context) (*Stats, error) {
	items, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(items), nil
}

// Summarize computes Stats over an in-memory item set.
func Summarize(items []model.Item) *Stats {
	s := &Stats{Total: len(items), TopCategories: []CategoryCount{}, Recent: []model.Item{}}
	counts := map[string]int{}

	for _, item := range items {
		switch item.Status {
		case model.ItemStatusLost:
			s.Lost++
		case model.ItemStatusFound:
			s.Found++
		}
		switch item.TrackingStatus {
		case model.TrackingOpen:
			s.Open++
		case model.TrackingInProgress:
			s.InProgress++
		case model.TrackingResolved:
			s.Resolved++
		}
		if item.Category != "" {
			counts[item.Category]++
		}
	}

	if s.Total > 0 {
		s.ResolutionRate = int(math.Round(float64(s.Resolved) / float64(s.Total) * 100))
	}

	for c, n := range counts {
		s.TopCategories = append(s.TopCategories, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(s.TopCategories, func(i, j int) bool {
		a, b := s.TopCategories[i], s.TopCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	if len(s.TopCategories) > 5 {
		s.TopCategories = s.TopCategories[:5]
	}

	recent := slices.Clone(items)
	sort.SliceStable(recent, func(i, j int) bool {
		ti, erri := model.ParseDate(recent[i].Date)
		tj, errj := model.ParseDate(recent[j].Date)
		if erri != nil || errj != nil {
			return erri == nil
		}
		return ti.After(tj)
	})
	if len(recent) > 3 {
		recent = recent[:3]
	}
	s.Recent = append(s.Recent, recent...)

	return s
}
