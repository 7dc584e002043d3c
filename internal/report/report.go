// Package report turns assembled order views into human-facing output: an
// OpenDocument Text report file and a plain-text listing.
package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

const (
	DefaultPath = "orders.odt"
	Title       = "ORDER REPORT"
)

// Line is one order item as shown in a report.
type Line struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// OrderView is everything a report needs to know about one order.
type OrderView struct {
	OrderNumber  string
	CustomerName string
	TotalAmount  decimal.Decimal
	Status       string
	Lines        []Line
}

// Generator writes one document per call. Writing to an existing path
// replaces it; an empty orders slice still yields a document with the header.
type Generator interface {
	Generate(path string, orders []OrderView) error
}

// Streamer is a Generator that can also write its document to a stream, as
// the HTTP report download does.
type Streamer interface {
	Generator
	ContentType() string
	Write(out io.Writer, orders []OrderView) error
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func lineText(l Line) string {
	return fmt.Sprintf("- %s: %d x %s", l.ProductName, l.Quantity, money(l.UnitPrice))
}
