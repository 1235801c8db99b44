package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Ticket statuses. A ticket starts in production, may be moved to stock, and
// ends finalized. Finalized is terminal.
const (
	TicketStatusInProduction = "in_production"
	TicketStatusInStock      = "in_stock"
	TicketStatusFinalized    = "finalized"
)

// ticketTransitions maps each status to the statuses it may move to.
var ticketTransitions = map[string][]string{
	TicketStatusInProduction: {TicketStatusInStock, TicketStatusFinalized},
	TicketStatusInStock:      {TicketStatusFinalized},
	TicketStatusFinalized:    {},
}

// ValidTicketTransition reports whether a ticket may move from one status to another.
func ValidTicketTransition(from, to string) bool {
	allowed, ok := ticketTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

// Ticket represents a production ticket (ficha): the authorization to produce
// a batch of a given model. Tickets carry a human-facing sequential number and
// an opaque redemption token embedded in the printed QR code.
type Ticket struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Number      int               `gorm:"uniqueIndex;not null" json:"number"`
	FichaNumber string            `gorm:"-" json:"ficha_number"` // computed field, zero-padded display form
	ModelName   string            `gorm:"not null" json:"model_name"`
	Task        string            `gorm:"not null" json:"task"`
	Quantity    int               `gorm:"not null;check:quantity > 0" json:"quantity"`
	Sector      string            `json:"sector"`
	Status      string            `gorm:"not null;default:'in_production'" json:"status"`
	Token       *string           `gorm:"uniqueIndex" json:"-"` // redemption token, cleared when the ticket is finalized
	Entries     []ProductionEntry `gorm:"foreignKey:TicketID" json:"entries,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Ticket model
func (Ticket) TableName() string {
	return "tickets"
}

// FormatNumber renders a ticket number in the display form used on printed
// fichas, e.g. 12 -> "F0012".
func FormatNumber(number int) string {
	return fmt.Sprintf("F%04d", number)
}

// ParseNumber accepts either the display form ("F0012") or a plain integer
// ("12") and returns the numeric ticket number.
func ParseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) > 1 && (s[0] == 'F' || s[0] == 'f') {
		s = s[1:]
	}
	number, err := strconv.Atoi(s)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("invalid ticket number %q", s)
	}
	return number, nil
}

// AfterFind populates the computed display number.
func (t *Ticket) AfterFind(*gorm.DB) error {
	t.FichaNumber = FormatNumber(t.Number)
	return nil
}

// AfterCreate populates the computed display number on freshly inserted rows.
func (t *Ticket) AfterCreate(*gorm.DB) error {
	t.FichaNumber = FormatNumber(t.Number)
	return nil
}
