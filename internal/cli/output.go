package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mcoot/classgold/internal/api/response"
)

// HealthResult is the health endpoint body
type HealthResult struct {
	Status string `json:"status"`
}

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}
	o.printText(data)
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	_, _ = fmt.Fprintln(o.w, msg)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Account:
		o.printAccount(v)
	case response.AuthResponse:
		o.printAccount(v.Account)
		o.printf("Token: %s\n", v.SessionToken)
	case response.MeResponse:
		if v.WelcomeGrantApplied {
			o.printf("Welcome! %d gold has been added to your balance.\n", v.Account.Balance)
		}
		o.printAccount(v.Account)
	case response.Catalog:
		o.printCatalog(v)
	case response.Item:
		o.printf("%s  %-20s %5d gold\n", v.ID, v.Name, v.Price)
	case response.PurchaseResponse:
		o.printf("Bought %s for %d gold\n", v.Item.Name, v.Item.Price)
		o.printf("Balance: %d\n", v.Account.Balance)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case response.ClassActivity:
		o.printActivity(v)
	case response.GameSession:
		o.printf("Game session: %s (expires %s)\n", v.ID, v.ExpiresAt.Format(time.RFC3339))
	case response.GameMessageResponse:
		o.printGameMessage(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printAccount(a response.Account) {
	o.printf("Account: %s (%s)\n", a.Name, a.ID)
	o.printf("Username: %s\n", a.Username)
	o.printf("Role: %s\n", a.Role)
	o.printf("Class: %s\n", a.ClassName)
	if a.Role != "student" {
		return
	}
	o.printf("Balance: %d gold\n", a.Balance)
	if len(a.Inventory) == 0 {
		return
	}
	o.printf("Inventory (%d):\n", len(a.Inventory))
	for _, entry := range a.Inventory {
		o.printf("  - %s (%s)\n", entry.Name, entry.ItemID)
	}
}

func (o *Output) printCatalog(c response.Catalog) {
	o.printf("Shop of %s\n", c.Owner)
	for _, tier := range c.Tiers {
		o.printf("\n[%s]\n", tier.Tier)
		for _, item := range tier.Items {
			o.printf("  %s  %-20s %5d gold\n", item.ID, item.Name, item.Price)
			if item.Description != "" {
				o.printf("      %s\n", item.Description)
			}
		}
	}
}

func (o *Output) printLeaderboard(l response.Leaderboard) {
	o.printf("Leaderboard for %s\n", l.ClassName)
	for _, e := range l.Entries {
		marker := " "
		if e.IsSelf {
			marker = "*"
		}
		o.printf("%s %2d. %-20s %6d\n", marker, e.Rank, e.Name, e.Balance)
	}
}

func (o *Output) printActivity(c response.ClassActivity) {
	o.printf("Activity for %s\n", c.ClassName)
	for _, s := range c.Students {
		o.printf("\n%s (%s): %d gold\n", s.Name, s.AccountID, s.Balance)
		for _, a := range s.Activity {
			line := fmt.Sprintf("  %s  %-13s %+d", a.At.Format("2006-01-02 15:04"), a.Kind, a.Amount)
			if a.ItemID != "" {
				line += " " + a.ItemID
			}
			o.printf("%s\n", line)
		}
	}
}

func (o *Output) printGameMessage(m response.GameMessageResponse) {
	if m.Closed {
		o.printf("Game closed\n")
		return
	}
	o.printf("Credited %d gold\n", m.Amount)
	if m.Account != nil {
		o.printf("Balance: %d\n", m.Account.Balance)
	}
}
