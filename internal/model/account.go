package model

import "time"

// WelcomeGrant is the one-time balance credited to a new student
const WelcomeGrant = 100

// AccountID uniquely identifies an account across the system
type AccountID string

// Role distinguishes students from teachers
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ValidRole reports whether r is a known role
func ValidRole(r Role) bool {
	return r == RoleStudent || r == RoleTeacher
}

// InventoryEntry is a purchased item held by an account
type InventoryEntry struct {
	ItemID      string
	Name        string
	PurchasedAt time.Time
}

// ActivityKind identifies a balance-changing event
type ActivityKind string

const (
	ActivityWelcomeGrant ActivityKind = "welcome_grant"
	ActivityGameReward   ActivityKind = "game_reward"
	ActivityPurchase     ActivityKind = "purchase"
)

// ActivityEntry records a single change to an account's balance
type ActivityEntry struct {
	Kind   ActivityKind
	Amount int // Positive for credits, negative for debits
	ItemID string
	At     time.Time
}

// Account is a student or teacher with a gold wallet
type Account struct {
	ID        AccountID
	Username  string
	Name      string
	Role      Role
	ClassName string
	Balance   int

	// Inventory and Activity are append-only
	Inventory []InventoryEntry
	Activity  []ActivityEntry

	WelcomeGranted bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsStudent returns true for student accounts
func (a *Account) IsStudent() bool {
	return a.Role == RoleStudent
}

// IsTeacher returns true for teacher accounts
func (a *Account) IsTeacher() bool {
	return a.Role == RoleTeacher
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	c := *a
	c.Inventory = append([]InventoryEntry(nil), a.Inventory...)
	c.Activity = append([]ActivityEntry(nil), a.Activity...)
	return &c
}

// Credentials holds login data, stored separately from the account
type Credentials struct {
	AccountID    AccountID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
