package catalog

import "github.com/mcoot/classgold/internal/model"

// DefaultCatalog returns the catalog every owner starts with.
// The result is freshly allocated on each call.
func DefaultCatalog() *model.Catalog {
	return &model.Catalog{Tiers: map[model.Tier][]model.Item{
		model.TierMicro: {
			{ID: "s1", Name: "Sticker", Description: "Pick a sticker from the sticker box", Price: 50},
			{ID: "s2", Name: "Front seat", Description: "Sit in the front row for a day", Price: 80},
		},
		model.TierMedium: {
			{ID: "m1", Name: "Homework pass", Description: "Skip one homework assignment", Price: 200},
			{ID: "m2", Name: "Music in class", Description: "Choose the music for work time", Price: 300},
		},
		model.TierLarge: {
			{ID: "l1", Name: "Teacher's chair", Description: "Use the teacher's chair for a day", Price: 700},
			{ID: "l2", Name: "Class party", Description: "Earn a party for the whole class", Price: 1500},
		},
	}}
}
