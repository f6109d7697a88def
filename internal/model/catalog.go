package model

// Tier is a fixed catalog grouping by reward size
type Tier string

const (
	TierMicro  Tier = "micro"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

// Tiers lists every tier in display order
var Tiers = []Tier{TierMicro, TierMedium, TierLarge}

// OwnerRef identifies whose catalog is being read or written
type OwnerRef string

// GlobalOwner is the catalog shared by classes without a teacher
const GlobalOwner OwnerRef = "global"

// Item is a reward that can be bought in the shop
type Item struct {
	ID          string
	Name        string
	Description string
	Price       int
}

// Catalog maps each tier to its ordered items
type Catalog struct {
	Tiers map[Tier][]Item
}

// Valid reports whether every tier is present and non-empty, and every item
// has a non-empty id unique across the catalog and a non-negative price
func (c *Catalog) Valid() bool {
	if c == nil || c.Tiers == nil {
		return false
	}
	seen := make(map[string]struct{})
	for _, t := range Tiers {
		if len(c.Tiers[t]) == 0 {
			return false
		}
		for _, item := range c.Tiers[t] {
			if item.ID == "" || item.Price < 0 {
				return false
			}
			if _, dup := seen[item.ID]; dup {
				return false
			}
			seen[item.ID] = struct{}{}
		}
	}
	return true
}

// FindItem returns a pointer to the item with the given id, or nil
func (c *Catalog) FindItem(id string) *Item {
	for _, t := range Tiers {
		items := c.Tiers[t]
		for i := range items {
			if items[i].ID == id {
				return &items[i]
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the catalog
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{Tiers: make(map[Tier][]Item, len(c.Tiers))}
	for t, items := range c.Tiers {
		out.Tiers[t] = append([]Item(nil), items...)
	}
	return out
}
