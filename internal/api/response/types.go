package response

import (
	"time"

	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/gamebridge"
	"github.com/mcoot/classgold/internal/services/leaderboard"
	"github.com/mcoot/classgold/internal/services/shop"
)

// InventoryEntry represents an owned item
type InventoryEntry struct {
	ItemID      string    `json:"item_id"`
	Name        string    `json:"name"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// ActivityEntry represents a balance change
type ActivityEntry struct {
	Kind   string    `json:"kind"`
	Amount int       `json:"amount"`
	ItemID string    `json:"item_id,omitempty"`
	At     time.Time `json:"at"`
}

// Account represents an account in API responses
type Account struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Name      string           `json:"name"`
	Role      string           `json:"role"`
	ClassName string           `json:"class_name"`
	Balance   int              `json:"balance"`
	Inventory []InventoryEntry `json:"inventory"`
}

func inventoryFromModel(entries []model.InventoryEntry) []InventoryEntry {
	result := make([]InventoryEntry, len(entries))
	for i, e := range entries {
		result[i] = InventoryEntry{ItemID: e.ItemID, Name: e.Name, PurchasedAt: e.PurchasedAt}
	}
	return result
}

func activityFromModel(entries []model.ActivityEntry) []ActivityEntry {
	result := make([]ActivityEntry, len(entries))
	for i, e := range entries {
		result[i] = ActivityEntry{Kind: string(e.Kind), Amount: e.Amount, ItemID: e.ItemID, At: e.At}
	}
	return result
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:        string(a.ID),
		Username:  a.Username,
		Name:      a.Name,
		Role:      string(a.Role),
		ClassName: a.ClassName,
		Balance:   a.Balance,
		Inventory: inventoryFromModel(a.Inventory),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&s.Account),
		SessionToken: s.Token,
	}
}

// MeResponse is the response for loading the account panel
type MeResponse struct {
	Account             Account `json:"account"`
	WelcomeGrantApplied bool    `json:"welcome_grant_applied"`
}

// Item represents a shop item
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// ItemFromModel converts a model.Item
func ItemFromModel(i *model.Item) Item {
	return Item{ID: i.ID, Name: i.Name, Description: i.Description, Price: i.Price}
}

// Tier is one catalog grouping
type Tier struct {
	Tier  string `json:"tier"`
	Items []Item `json:"items"`
}

// Catalog represents a shop catalog, tiers in fixed order
type Catalog struct {
	Owner string `json:"owner"`
	Tiers []Tier `json:"tiers"`
}

// CatalogFromModel converts a model.Catalog
func CatalogFromModel(owner model.OwnerRef, c *model.Catalog) Catalog {
	tiers := make([]Tier, len(model.Tiers))
	for i, tier := range model.Tiers {
		items := make([]Item, len(c.Tiers[tier]))
		for j := range c.Tiers[tier] {
			items[j] = ItemFromModel(&c.Tiers[tier][j])
		}
		tiers[i] = Tier{Tier: string(tier), Items: items}
	}
	return Catalog{Owner: string(owner), Tiers: tiers}
}

// PurchaseResponse is the response for a completed purchase
type PurchaseResponse struct {
	Outcome string  `json:"outcome"`
	Account Account `json:"account"`
	Item    Item    `json:"item"`
}

// PurchaseRejection is attached to a blocked purchase error so the client can reload
type PurchaseRejection struct {
	Outcome string  `json:"outcome"`
	Item    *Item   `json:"item,omitempty"`
	Catalog Catalog `json:"catalog"`
}

// PurchaseRejectionFromOutcome builds rejection details with the fresh catalog
func PurchaseRejectionFromOutcome(o *shop.Outcome, owner model.OwnerRef, c *model.Catalog) PurchaseRejection {
	var item *Item
	if o.Item != nil {
		i := ItemFromModel(o.Item)
		item = &i
	}
	return PurchaseRejection{
		Outcome: string(o.Kind),
		Item:    item,
		Catalog: CatalogFromModel(owner, c),
	}
}

// LeaderboardEntry represents a ranked student
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Balance   int    `json:"balance"`
	IsSelf    bool   `json:"is_self"`
}

// Leaderboard is the ranked view of a class
type Leaderboard struct {
	ClassName string             `json:"class_name"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts projected entries
func LeaderboardFromModel(className string, entries []model.LeaderboardEntry) Leaderboard {
	result := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		result[i] = LeaderboardEntry{
			Rank:      e.Rank,
			AccountID: string(e.AccountID),
			Name:      e.Name,
			Balance:   e.Balance,
			IsSelf:    e.IsSelf,
		}
	}
	return Leaderboard{ClassName: className, Entries: result}
}

// StudentActivity is one student's history
type StudentActivity struct {
	AccountID string           `json:"account_id"`
	Name      string           `json:"name"`
	Balance   int              `json:"balance"`
	Inventory []InventoryEntry `json:"inventory"`
	Activity  []ActivityEntry  `json:"activity"`
}

// ClassActivity is the teacher's view of a class
type ClassActivity struct {
	ClassName string            `json:"class_name"`
	Students  []StudentActivity `json:"students"`
}

// ClassActivityFromModel converts per-student activity
func ClassActivityFromModel(className string, students []leaderboard.StudentActivity) ClassActivity {
	result := make([]StudentActivity, len(students))
	for i, s := range students {
		result[i] = StudentActivity{
			AccountID: string(s.AccountID),
			Name:      s.Name,
			Balance:   s.Balance,
			Inventory: inventoryFromModel(s.Inventory),
			Activity:  activityFromModel(s.Activity),
		}
	}
	return ClassActivity{ClassName: className, Students: result}
}

// GameSession represents a started game
type GameSession struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GameSessionFromModel converts a gamebridge.Session
func GameSessionFromModel(s *gamebridge.Session) GameSession {
	return GameSession{ID: s.ID, ExpiresAt: s.ExpiresAt}
}

// GameMessageResponse is the effect of a game message
type GameMessageResponse struct {
	Kind    string   `json:"kind"`
	Amount  int      `json:"amount,omitempty"`
	Closed  bool     `json:"closed"`
	Account *Account `json:"account,omitempty"`
}

// GameMessageResponseFromResult converts a gamebridge.Result
func GameMessageResponseFromResult(r *gamebridge.Result) GameMessageResponse {
	resp := GameMessageResponse{
		Kind:   string(r.Message.Kind),
		Amount: r.Message.Amount,
		Closed: r.Closed,
	}
	if r.Account != nil {
		a := AccountFromModel(r.Account)
		resp.Account = &a
	}
	return resp
}
