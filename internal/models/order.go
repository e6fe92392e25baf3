// internal/models/order.go
package models

import (
	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	OrderNumber      string          `json:"order_number" gorm:"size:32;uniqueIndex;not null"`
	Items            []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	ShippingAddress  ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod    string          `json:"payment_method" gorm:"size:50"`
	Subtotal         decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Shipping         decimal.Decimal `json:"shipping" gorm:"type:decimal(10,2);not null"`
	Total            decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(32);not null;index"`
	TrackingNumber   *string         `json:"tracking_number" gorm:"size:100"`
	PaymentReference *string         `json:"payment_reference,omitempty" gorm:"size:255"`

	// UnappliedItems lists product ids whose stock decrement did not apply
	// while placing this order. Only set on the create response.
	UnappliedItems []string `json:"unapplied_items,omitempty" gorm:"-"`
}

type OrderItem struct {
	BaseModel
	OrderID       string          `json:"-" gorm:"type:varchar(36);not null;index"`
	Position      int             `json:"-" gorm:"not null"`
	ProductID     string          `json:"product_id" gorm:"type:varchar(36);not null;index"`
	ProductName   string          `json:"product_name" gorm:"size:255"`
	ProductImage  string          `json:"product_image" gorm:"type:text"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	SelectedSize  *string         `json:"selected_size" gorm:"size:100"`
	SelectedColor *string         `json:"selected_color" gorm:"size:100"`
	StockApplied  bool            `json:"stock_applied"`
}

type ShippingAddress struct {
	FirstName string `json:"first_name" gorm:"size:100" validate:"required"`
	LastName  string `json:"last_name" gorm:"size:100" validate:"required"`
	Email     string `json:"email" gorm:"size:255" validate:"required,email"`
	Address   string `json:"address" gorm:"type:text" validate:"required"`
	City      string `json:"city" gorm:"size:100" validate:"required"`
	State     string `json:"state" gorm:"size:100" validate:"required"`
	Pincode   string `json:"pincode" gorm:"size:20" validate:"required"`
	Phone     string `json:"phone" gorm:"size:30" validate:"required"`
}

// FullName joins the recipient's first and last name.
func (a ShippingAddress) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
