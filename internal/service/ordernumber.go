package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderNumberPrefix          = "ORD-"
	DefaultOrderNumberAttempts = 5
)

var OrderNumberPattern = regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)

// NewOrderNumber returns a random candidate. It says nothing about whether the
// number is free; OrderService checks that before using it.
func NewOrderNumber() (string, error) {
	return OrderNumberFrom(rand.Reader)
}

// OrderNumberFrom builds a candidate from the first four bytes of a random UUID
// read from r. Those bytes carry no version or variant bits.
func OrderNumberFrom(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("order number: %w", err)
	}
	return OrderNumberPrefix + strings.ToUpper(hex.EncodeToString(id[:4])), nil
}

func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
