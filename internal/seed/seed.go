// Package seed loads the Waosa sample catalog and two completed orders.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/order_ledger/internal/logging"
	"github.com/Skotchmaster/order_ledger/internal/models"
	"github.com/Skotchmaster/order_ledger/internal/service"
	"github.com/Skotchmaster/order_ledger/internal/transport"
)

type sampleProduct struct {
	name     string
	price    int64
	quantity int
}

var sampleProducts = []sampleProduct{
	{name: "Waosa Product A", price: 100, quantity: 50},
	{name: "Waosa Product B", price: 200, quantity: 30},
	{name: "Waosa Product C", price: 150, quantity: 20},
}

type sampleOrder struct {
	customer string
	email    string
	// index into products, quantity
	items [][2]int
}

var sampleOrders = []sampleOrder{
	{customer: "Alice Johnson", email: "alice@waosa.com", items: [][2]int{{0, 2}, {1, 1}}},
	{customer: "Bob Smith", email: "bob@waosa.com", items: [][2]int{{2, 3}, {0, 1}}},
}

// Filler writes sample data through the catalog and order services.
type Filler struct {
	Catalog *service.CatalogService
	Orders  *service.OrderService
}

func (f *Filler) Fill(ctx context.Context) ([]service.OrderDetail, error) {
	l := logging.FromContext(ctx).WithField("op", "seed.fill")

	supplier, err := f.Catalog.AddSupplier(ctx, transport.CreateSupplierRequest{
		Name:          "Waosa Supplier",
		ContactPerson: "Waosa Manager",
		Email:         "manager@waosa.com",
		Phone:         "123-456-7890",
	})
	if err != nil {
		return nil, fmt.Errorf("seed supplier: %w", err)
	}

	ids := make([]uint, len(sampleProducts))
	for i, p := range sampleProducts {
		created, err := f.Catalog.AddProduct(ctx, supplier.ID, transport.CreateProductRequest{
			Name:     p.name,
			Price:    decimal.NewFromInt(p.price),
			Quantity: p.quantity,
		})
		if err != nil {
			return nil, fmt.Errorf("seed product %q: %w", p.name, err)
		}
		ids[i] = created.ID
	}

	out := make([]service.OrderDetail, 0, len(sampleOrders))
	for _, o := range sampleOrders {
		req := transport.CreateOrderRequest{
			Customer: transport.CustomerInfo{Name: o.customer, Email: o.email},
			Status:   models.OrderStatusCompleted,
		}
		for _, it := range o.items {
			req.Items = append(req.Items, transport.CreateOrderItem{ProductID: ids[it[0]], Quantity: it[1]})
		}

		detail, err := f.Orders.CreateOrder(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("seed order for %s: %w", o.customer, err)
		}
		out = append(out, *detail)
	}

	l.WithFields(logrus.Fields{
		"supplier_id": supplier.ID,
		"products":    len(ids),
		"orders":      len(out),
	}).Info("seed_success")
	return out, nil
}
