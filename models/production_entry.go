package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionEntry records one completed unit of work against a ticket. Entries
// are immutable after creation: they are never updated or deleted, so the model
// carries no UpdatedAt or soft-delete column. The unit price is captured from
// the catalog at record time and never recomputed.
type ProductionEntry struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TicketID     uint            `gorm:"not null;index" json:"ticket_id"` // foreign key to tickets table
	Ticket       Ticket          `gorm:"foreignKey:TicketID" json:"-"`    // don't include full ticket in JSON
	Operator     string          `gorm:"not null;index" json:"operator"`
	ModelName    string          `gorm:"not null" json:"model_name"` // denormalized copy from the ticket
	Task         string          `gorm:"not null" json:"task"`
	Size         string          `json:"size"`
	Quantity     int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Value        decimal.Decimal `gorm:"type:decimal(12,2)" json:"value"`
	MissingPrice bool            `gorm:"not null;default:false" json:"missing_price"` // catalog had no price when the entry was recorded
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the ProductionEntry model
func (ProductionEntry) TableName() string {
	return "production_entries"
}
