package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/order_ledger/internal/models"
)

type CreateSupplierRequest struct {
	Name          string `json:"name"           validate:"required,max=255"`
	ContactPerson string `json:"contact_person" validate:"max=255"`
	Email         string `json:"email"          validate:"omitempty,email,max=255"`
	Phone         string `json:"phone"          validate:"max=50"`
	Address       string `json:"address"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"    validate:"gte=0"`
}

type CustomerInfo struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
	Phone string `json:"phone" validate:"max=50"`
}

type CreateOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"   validate:"gt=0"`
}

type CreateOrderRequest struct {
	Customer CustomerInfo       `json:"customer"`
	Status   models.OrderStatus `json:"status"   validate:"omitempty,oneof=pending completed cancelled"`
	Items    []CreateOrderItem  `json:"items"    validate:"required,min=1,dive"`
}
