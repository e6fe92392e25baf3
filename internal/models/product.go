// internal/models/product.go
package models

import (
	"github.com/shopspring/decimal"
)

const (
	DefaultProductRating = 4.5
	DefaultStockQuantity = 100
)

type Product struct {
	BaseModel
	Name          string          `json:"name" gorm:"size:255;not null"`
	Slug          string          `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Category      string          `json:"category" gorm:"size:100;index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	OriginalPrice decimal.Decimal `json:"original_price" gorm:"type:decimal(10,2);not null"`
	Discount      int             `json:"discount"`
	Description   string          `json:"description" gorm:"type:text"`
	Features      StringList      `json:"features"`
	Colors        StringList      `json:"colors"`
	Sizes         StringList      `json:"sizes"`
	Image         string          `json:"image" gorm:"type:text"`
	Images        StringList      `json:"images"`
	InStock       bool            `json:"in_stock"`
	IsNew         bool            `json:"is_new"`
	IsBestSeller  bool            `json:"is_best_seller"`
	StockQuantity int             `json:"stock_quantity" gorm:"index"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
}

// SyncStockFlag derives InStock from StockQuantity.
func (p *Product) SyncStockFlag() {
	p.InStock = p.StockQuantity > 0
}
