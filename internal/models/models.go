package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/order_ledger/internal/db"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Base carries the identity and timestamps shared by every table.
// gorm refreshes UpdatedAt on each Save/Update.
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index"                    json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Supplier struct {
	Base
	Name          string `gorm:"size:255;not null" json:"name"`
	ContactPerson string `gorm:"size:255"          json:"contact_person"`
	Email         string `gorm:"size:255"          json:"email"`
	Phone         string `gorm:"size:50"           json:"phone"`
	Address       string `gorm:"type:text"         json:"address"`
}

type Product struct {
	Base
	Name        string          `gorm:"size:255;not null"                json:"name"`
	Description string          `gorm:"type:text"                        json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"      json:"price"`
	Quantity    int             `gorm:"not null;check:quantity >= 0"     json:"quantity"`
	SupplierID  uint            `gorm:"not null;index"                   json:"supplier_id"`

	// Declares the products→suppliers foreign key. Never preloaded.
	Supplier *Supplier `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

type Order struct {
	Base
	OrderNumber   string          `gorm:"size:100;uniqueIndex;not null"       json:"order_number"`
	CustomerName  string          `gorm:"size:255;not null"                   json:"customer_name"`
	CustomerEmail string          `gorm:"size:255"                            json:"customer_email"`
	CustomerPhone string          `gorm:"size:50"                             json:"customer_phone"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"total_amount"`
	Status        OrderStatus     `gorm:"size:50;not null;default:'pending'"  json:"status"`
}

type OrderItem struct {
	Base
	OrderID   uint            `gorm:"not null;index"               json:"order_id"`
	ProductID uint            `gorm:"not null;index"               json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0"  json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"line_total"`

	// Declare the order_items→orders and order_items→products foreign keys. Never preloaded.
	Order   *Order   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Product *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// Schema lists the ledger tables in dependency order.
func Schema() db.Schema {
	return db.NewSchema(&Supplier{}, &Product{}, &Order{}, &OrderItem{})
}
