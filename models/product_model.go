package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel is a catalog entry mapping a product model name to its unit
// price. Category is assigned at registration time and drives the per-ticket
// quantity policy for batch issuance; Sizes is the comma-separated list of
// size labels offered on the shop-floor form.
type ProductModel struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;not null" json:"name"`
	Category  string          `gorm:"not null;default:''" json:"category"`
	Sizes     string          `json:"sizes"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Active    bool            `gorm:"not null" json:"active"` // no default tag: GORM would drop an explicit false from the INSERT
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the ProductModel model
func (ProductModel) TableName() string {
	return "product_models"
}
