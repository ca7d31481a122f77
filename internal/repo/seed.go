package repo

import (
	"context"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// fixtures are the example reports loaded into an empty database.
func fixtures() []model.Item {
	return []model.Item{
		{
			ID:             "1",
			Title:          "Blue Backpack",
			Description:    "Lost at Central Park on June 15th. Contains laptop and books.",
			Location:       "Central Park, New York",
			Date:           "2023-06-15",
			Status:         model.ItemStatusLost,
			Image:          model.ImagePlaceholder,
			Category:       "Bags",
			TrackingStatus: model.TrackingOpen,
			Comments: []model.Comment{
				{
					ID:     "c1",
					Text:   "I think I saw a similar backpack at the lost and found office.",
					Author: "Jane Smith",
					Date:   "2023-06-16T14:30:00Z",
				},
			},
			Contact: &model.Contact{Name: "Zombie Reddy", Phone: "+91 98765 43210", Email: "zombie.reddy@example.com"},
		},
		{
			ID:             "2",
			Title:          "iPhone 13 Pro",
			Description:    "Lost at the coffee shop on Main Street. Has a blue case.",
			Location:       "Starbucks, Main Street",
			Date:           "2023-06-18",
			Status:         model.ItemStatusLost,
			Image:          model.ImagePlaceholder,
			Category:       "Electronics",
			TrackingStatus: model.TrackingInProgress,
			Comments:       []model.Comment{},
			Contact:        &model.Contact{Name: "Ravi Kumar", Phone: "+91 87654 32109", Email: "ravi@example.com"},
		},
		{
			ID:             "3",
			Title:          "Gold Watch",
			Description:    "Found near the library entrance. Brand is Timex.",
			Location:       "Public Library",
			Date:           "2023-06-20",
			Status:         model.ItemStatusFound,
			Image:          model.ImagePlaceholder,
			Category:       "Jewelry",
			TrackingStatus: model.TrackingOpen,
			Comments:       []model.Comment{},
			Contact:        &model.Contact{Name: "Priya Sharma", Phone: "+91 76543 21098", Email: "priya@example.com"},
		},
	}
}

// SeedIfEmpty loads the example reports when the item collection is empty.
// It reports whether anything was written.
func (r *Items) SeedIfEmpty(ctx context.Context) (bool, error) {
	n, err := store.CountItems(ctx, r.DB)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	for _, item := range fixtures() {
		if _, err := r.Save(ctx, &item); err != nil {
			return false, fmt.Errorf("seeding item %s: %w", item.ID, err)
		}
	}
	r.Logger.Info("seeded example items", "count", len(fixtures()))
	return true, nil
}
