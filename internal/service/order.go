package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Skotchmaster/order_ledger/internal/db"
	"github.com/Skotchmaster/order_ledger/internal/domain"
	"github.com/Skotchmaster/order_ledger/internal/logging"
	"github.com/Skotchmaster/order_ledger/internal/metrics"
	"github.com/Skotchmaster/order_ledger/internal/models"
	"github.com/Skotchmaster/order_ledger/internal/report"
	"github.com/Skotchmaster/order_ledger/internal/repo"
	"github.com/Skotchmaster/order_ledger/internal/transport"
)

const EventOrderCreated = "order_created"

// Publisher delivers an event to a topic. Implemented by mykafka.Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type OrderCreatedEvent struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type OrderLine struct {
	models.OrderItem
	ProductName string `json:"product_name"`
}

// OrderDetail is an order with its items and the name of each item's product.
type OrderDetail struct {
	Order models.Order `json:"order"`
	Items []OrderLine  `json:"items"`
}

func (d OrderDetail) View() report.OrderView {
	lines := make([]report.Line, 0, len(d.Items))
	for _, it := range d.Items {
		lines = append(lines, report.Line{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return report.OrderView{
		OrderNumber:  d.Order.OrderNumber,
		CustomerName: d.Order.CustomerName,
		TotalAmount:  d.Order.TotalAmount,
		Status:       string(d.Order.Status),
		Lines:        lines,
	}
}

type OrderService struct {
	Gateway  *db.Gateway
	Metrics  *metrics.LedgerMetrics
	Producer Publisher
	Topic    string

	// NewOrderNumber defaults to the package-level NewOrderNumber.
	NewOrderNumber    func() (string, error)
	MaxNumberAttempts int
}

// CreateOrder validates the request, snapshots current product prices and
// persists the order together with its items in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*OrderDetail, error) {
	l := logging.FromContext(ctx).WithField("op", "orders.create")

	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	if err := validateStruct(req); err != nil {
		l.WithError(err).Warn("create_order_error")
		return nil, err
	}
	if req.Status == "" {
		req.Status = models.OrderStatusPending
	}

	var detail *OrderDetail
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		r := &repo.GormRepo{DB: tx}

		ids := make([]uint, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.ProductID)
		}
		products, err := r.FindProducts(ctx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))
		names := make([]string, 0, len(req.Items))
		for _, it := range req.Items {
			p, ok := products[it.ProductID]
			if !ok {
				return fmt.Errorf("%w: product %d", domain.ErrNotFound, it.ProductID)
			}
			lineTotal := LineTotal(it.Quantity, p.Price)
			if err := checkMoney("line total", lineTotal); err != nil {
				return err
			}
			total = total.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
				LineTotal: lineTotal,
			})
			names = append(names, p.Name)
		}

		if err := checkMoney("total amount", total); err != nil {
			return err
		}

		number, err := s.reserveOrderNumber(ctx, r)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderNumber:   number,
			CustomerName:  req.Customer.Name,
			CustomerEmail: req.Customer.Email,
			CustomerPhone: req.Customer.Phone,
			TotalAmount:   total,
			Status:        req.Status,
		}
		if err := r.CreateOrder(ctx, &order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := r.CreateOrderItems(ctx, items); err != nil {
			return err
		}

		detail = &OrderDetail{Order: order, Items: make([]OrderLine, len(items))}
		for i := range items {
			detail.Items[i] = OrderLine{OrderItem: items[i], ProductName: names[i]}
		}
		return nil
	})
	if err != nil {
		s.Metrics.RecordOrderRolledBack()
		l.WithError(err).Warn("create_order_error")
		return nil, err
	}

	s.Metrics.RecordOrderCreated(detail.Order.TotalAmount.InexactFloat64())
	l.WithFields(logrus.Fields{
		"order_id":     detail.Order.ID,
		"order_number": detail.Order.OrderNumber,
		"total_amount": detail.Order.TotalAmount.StringFixed(2),
		"items":        len(detail.Items),
	}).Info("create_order_success")

	s.publishCreated(ctx, detail.Order)
	return detail, nil
}

// reserveOrderNumber draws candidates until one is not in use, giving up with
// ErrIntegrity after MaxNumberAttempts draws.
func (s *OrderService) reserveOrderNumber(ctx context.Context, r *repo.GormRepo) (string, error) {
	gen := s.NewOrderNumber
	if gen == nil {
		gen = NewOrderNumber
	}
	attempts := s.MaxNumberAttempts
	if attempts < 1 {
		attempts = DefaultOrderNumberAttempts
	}

	for i := 1; i <= attempts; i++ {
		number, err := gen()
		if err != nil {
			return "", err
		}
		if !OrderNumberPattern.MatchString(number) {
			return "", fmt.Errorf("order number %q has unexpected format", number)
		}

		taken, err := r.OrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}

		s.Metrics.RecordOrderNumberCollision()
		logging.FromContext(ctx).WithFields(logrus.Fields{
			"order_number": number,
			"attempt":      i,
		}).Warn("order_number_collision")
	}
	return "", fmt.Errorf("%w: no free order number after %d attempts", domain.ErrIntegrity, attempts)
}

func (s *OrderService) publishCreated(ctx context.Context, order models.Order) {
	if s.Producer == nil {
		return
	}
	event := OrderCreatedEvent{
		Type:        EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
	}
	if err := s.Producer.PublishEvent(ctx, s.Topic, order.OrderNumber, event); err != nil {
		logging.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"topic":        s.Topic,
		}).Error("publish_order_created_error")
	}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		var err error
		orders, err = (&repo.GormRepo{DB: tx}).ListOrders(ctx)
		return err
	})
	return orders, err
}

func (s *OrderService) ListOrdersPage(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var (
		total  int64
		orders []models.Order
	)
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		var err error
		total, orders, err = (&repo.GormRepo{DB: tx}).ListOrdersPage(ctx, offset, limit)
		return err
	})
	return total, orders, err
}

func (s *OrderService) GetOrderDetail(ctx context.Context, id uint) (*OrderDetail, error) {
	var detail *OrderDetail
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		r := &repo.GormRepo{DB: tx}
		order, err := r.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		details, err := assembleDetails(ctx, r, []models.Order{*order})
		if err != nil {
			return err
		}
		detail = &details[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListOrderDetails returns every order with its items, in creation order.
func (s *OrderService) ListOrderDetails(ctx context.Context) ([]OrderDetail, error) {
	var details []OrderDetail
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		r := &repo.GormRepo{DB: tx}
		orders, err := r.ListOrders(ctx)
		if err != nil {
			return err
		}
		details, err = assembleDetails(ctx, r, orders)
		return err
	})
	return details, err
}

func assembleDetails(ctx context.Context, r *repo.GormRepo, orders []models.Order) ([]OrderDetail, error) {
	details := make([]OrderDetail, len(orders))
	if len(orders) == 0 {
		return details, nil
	}

	index := make(map[uint]int, len(orders))
	orderIDs := make([]uint, len(orders))
	for i, o := range orders {
		details[i] = OrderDetail{Order: o, Items: []OrderLine{}}
		index[o.ID] = i
		orderIDs[i] = o.ID
	}

	items, err := r.ListOrderItems(ctx, orderIDs...)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(items))
	productIDs := make([]uint, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := r.FindProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: order item %d references missing product %d", domain.ErrIntegrity, it.ID, it.ProductID)
		}
		d := &details[index[it.OrderID]]
		d.Items = append(d.Items, OrderLine{OrderItem: it, ProductName: p.Name})
	}
	return details, nil
}
