package httpserver

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/order_ledger/internal/db"
	"github.com/Skotchmaster/order_ledger/internal/metrics"
	"github.com/Skotchmaster/order_ledger/internal/models"
	"github.com/Skotchmaster/order_ledger/internal/report"
	"github.com/Skotchmaster/order_ledger/internal/seed"
	"github.com/Skotchmaster/order_ledger/internal/service"
)

type testEnv struct {
	E       *echo.Echo
	Gateway *db.Gateway
	Seeded  []service.OrderDetail
}

func newTestEnv(t *testing.T, withData bool) *testEnv {
	t.Helper()
	ctx := context.Background()

	g := db.NewGateway(":memory:", nil)
	t.Cleanup(func() { _ = g.Close() })
	require.NoError(t, g.EnsureSchema(ctx, models.Schema()))

	reg := prometheus.NewRegistry()
	m := metrics.NewLedgerMetrics(reg)
	catalog := &service.CatalogService{Gateway: g}
	orders := &service.OrderService{Gateway: g, Metrics: m}
	reports := &service.ReportService{Orders: orders, Generator: report.ODTWriter{}, Metrics: m}

	env := &testEnv{E: echo.New(), Gateway: g}
	if withData {
		seeded, err := (&seed.Filler{Catalog: catalog, Orders: orders}).Fill(ctx)
		require.NoError(t, err)
		env.Seeded = seeded
	}

	Register(env.E, &Deps{
		Gateway:        g,
		OrderHandler:   &OrderHTTP{Orders: orders, Reports: reports},
		CatalogHandler: &CatalogHTTP{Svc: catalog},
		Gatherer:       reg,
	})
	return env
}

func (env *testEnv) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)

	assert.Equal(t, http.StatusOK, env.get("/health/live").Code)
	assert.Equal(t, http.StatusOK, env.get("/health/ready").Code)
}

func TestGetOrders(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.get("/api/v1/orders?page=1&size=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Order `json:"data"`
		Meta struct {
			Page       int   `json:"page"`
			Size       int   `json:"size"`
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
			HasNext    bool  `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, env.Seeded[0].Order.OrderNumber, resp.Data[0].OrderNumber)
	assert.EqualValues(t, 2, resp.Meta.Total)
	assert.EqualValues(t, 2, resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasNext)
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t, true)
	bob := env.Seeded[1]

	rec := env.get("/api/v1/orders/" + jsonNumber(bob.Order.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail service.OrderDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, bob.Order.OrderNumber, detail.Order.OrderNumber)
	assert.Equal(t, "550", detail.Order.TotalAmount.String())
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Waosa Product C", detail.Items[0].ProductName)
}

func TestGetOrder_Errors(t *testing.T) {
	env := newTestEnv(t, true)

	assert.Equal(t, http.StatusNotFound, env.get("/api/v1/orders/999").Code)
	assert.Equal(t, http.StatusBadRequest, env.get("/api/v1/orders/abc").Code)
	assert.Equal(t, http.StatusBadRequest, env.get("/api/v1/orders/0").Code)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t, true)
	productID := env.Seeded[0].Items[0].ProductID

	rec := env.get("/api/v1/products/" + jsonNumber(productID))
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Waosa Product A", p.Name)

	assert.Equal(t, http.StatusNotFound, env.get("/api/v1/products/999").Code)
	assert.Equal(t, http.StatusOK, env.get("/api/v1/products").Code)
}

func TestGetReport(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.get("/api/v1/orders/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.oasis.opendocument.text", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "orders.odt")

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	assert.Equal(t, "mimetype", zr.File[0].Name)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_orders_created_total 2")
}

func TestReady_StoreUnavailable(t *testing.T) {
	g := db.NewGateway("sqlite:///"+t.TempDir()+"/missing/dir/orders.db", nil)
	e := echo.New()
	Register(e, &Deps{Gateway: g, OrderHandler: &OrderHTTP{}, CatalogHandler: &CatalogHTTP{}})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
