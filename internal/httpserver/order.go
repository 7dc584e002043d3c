package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/order_ledger/internal/domain"
	"github.com/Skotchmaster/order_ledger/internal/logging"
	"github.com/Skotchmaster/order_ledger/internal/report"
	"github.com/Skotchmaster/order_ledger/internal/service"
	"github.com/Skotchmaster/order_ledger/internal/util"
)

type OrderHTTP struct {
	Orders  *service.OrderService
	Reports *service.ReportService
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id %q is not a positive integer", domain.ErrValidation, raw)
	}
	return uint(id), nil
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("handler", "order.get_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, orders, err := h.Orders.ListOrdersPage(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}

	l.WithFields(logrus.Fields{"page": page, "count": len(orders)}).Debug("get_orders_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("handler", "order.get_order")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return fail(l, "get_order_error", err)
	}

	detail, err := h.Orders.GetOrderDetail(ctx, id)
	if err != nil {
		return fail(l.WithField("order_id", id), "get_order_error", err)
	}
	return c.JSON(http.StatusOK, detail)
}

// GetReport streams the report as an attachment.
func (h *OrderHTTP) GetReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("handler", "order.get_report")

	// rendered into memory so a failed read still gets a proper error status
	var buf bytes.Buffer
	contentType, err := h.Reports.Render(ctx, &buf)
	if err != nil {
		return fail(l, "get_report_error", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.DefaultPath))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
