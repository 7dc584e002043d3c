package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/order_ledger/internal/db"
	"github.com/Skotchmaster/order_ledger/internal/metrics"
	"github.com/Skotchmaster/order_ledger/internal/models"
	"github.com/Skotchmaster/order_ledger/internal/report"
	"github.com/Skotchmaster/order_ledger/internal/transport"
)

type testEnv struct {
	gateway  *db.Gateway
	registry *prometheus.Registry
	catalog  *CatalogService
	orders   *OrderService
	reports  *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	g := db.NewGateway(":memory:", nil)
	t.Cleanup(func() { _ = g.Close() })
	require.NoError(t, g.EnsureSchema(context.Background(), models.Schema()))

	reg := prometheus.NewRegistry()
	m := metrics.NewLedgerMetrics(reg)

	orders := &OrderService{Gateway: g, Metrics: m, MaxNumberAttempts: DefaultOrderNumberAttempts}
	return &testEnv{
		gateway:  g,
		registry: reg,
		catalog:  &CatalogService{Gateway: g},
		orders:   orders,
		reports:  &ReportService{Orders: orders, Generator: report.ODTWriter{}, Metrics: m},
	}
}

type catalogFixture struct {
	supplier models.Supplier
	a, b, c  models.Product
}

func (e *testEnv) seedCatalog(t *testing.T) catalogFixture {
	t.Helper()
	ctx := context.Background()

	supplier, err := e.catalog.AddSupplier(ctx, transport.CreateSupplierRequest{
		Name:          "Waosa Supplier",
		ContactPerson: "Waosa Manager",
		Email:         "manager@waosa.com",
	})
	require.NoError(t, err)

	add := func(name string, price int64, qty int) models.Product {
		p, err := e.catalog.AddProduct(ctx, supplier.ID, transport.CreateProductRequest{
			Name:     name,
			Price:    decimal.NewFromInt(price),
			Quantity: qty,
		})
		require.NoError(t, err)
		return *p
	}

	return catalogFixture{
		supplier: *supplier,
		a:        add("Waosa Product A", 100, 50),
		b:        add("Waosa Product B", 200, 30),
		c:        add("Waosa Product C", 150, 20),
	}
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.gateway.WithSession(context.Background(), func(tx *gorm.DB) error {
		return tx.Model(model).Count(&n).Error
	}))
	return n
}

// counter reads a counter from the test registry, summing across label values.
func (e *testEnv) counter(t *testing.T, name string) float64 {
	t.Helper()

	families, err := e.registry.Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += counterValue(m)
		}
	}
	return total
}

func counterValue(m *dto.Metric) float64 {
	if m.GetCounter() == nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// sequence hands out the given numbers in order, then repeats the last one.
func sequence(numbers ...string) func() (string, error) {
	var (
		mu sync.Mutex
		i  int
	)
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n := numbers[i]
		if i < len(numbers)-1 {
			i++
		}
		return n, nil
	}
}

type captureGenerator struct {
	path   string
	orders []report.OrderView
	err    error
}

func (g *captureGenerator) Generate(path string, orders []report.OrderView) error {
	g.path = path
	g.orders = orders
	return g.err
}

// plainStreamer writes one line per order number.
type plainStreamer struct {
	captureGenerator
}

func (plainStreamer) ContentType() string { return "text/plain; charset=utf-8" }

func (plainStreamer) Write(out io.Writer, orders []report.OrderView) error {
	for _, o := range orders {
		if _, err := fmt.Fprintln(out, o.OrderNumber); err != nil {
			return err
		}
	}
	return nil
}
