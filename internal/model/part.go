package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part represents a catalog part. BasePrice is the wholesale price and must
// never leave the service without going through the pricing policy.
type Part struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	PartNumber    string          `json:"part_number" gorm:"type:varchar(100);not null;uniqueIndex:idx_number_manufacturer"`
	Manufacturer  string          `json:"manufacturer" gorm:"type:varchar(100);not null;uniqueIndex:idx_number_manufacturer"`
	Name          string          `json:"name" gorm:"type:varchar(255)"`
	Description   string          `json:"description" gorm:"type:text"`
	CategoryID    uint            `json:"category_id" gorm:"index"`
	BasePrice     decimal.Decimal `json:"base_price" gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"default:0"`
	IsAvailable   bool            `json:"is_available" gorm:"default:true"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// PartCategory represents part categories
type PartCategory struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null;unique"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
