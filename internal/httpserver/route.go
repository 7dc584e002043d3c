package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skotchmaster/order_ledger/internal/db"
	"github.com/Skotchmaster/order_ledger/internal/logging"
)

type Deps struct {
	Gateway        *db.Gateway
	OrderHandler   *OrderHTTP
	CatalogHandler *CatalogHTTP
	Gatherer       prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/api/v1")

	orders := v1.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/report", d.OrderHandler.GetReport)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	products := v1.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
}

func (d *Deps) ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := d.Gateway.Ping(ctx); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("readiness_check_failed")
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
