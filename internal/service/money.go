package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/order_ledger/internal/domain"
)

// Amounts are stored as numeric(12,2): two decimal places, ten integer digits.
const moneyScale = 2

var moneyLimit = decimal.New(1, 10)

// checkMoney reports amounts the money columns cannot hold exactly.
func checkMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must be >= 0", domain.ErrValidation, field)
	}
	if !d.Equal(d.Round(moneyScale)) {
		return fmt.Errorf("%w: %s %s has more than %d decimal places", domain.ErrValidation, field, d, moneyScale)
	}
	if d.GreaterThanOrEqual(moneyLimit) {
		return fmt.Errorf("%w: %s %s must be below %s", domain.ErrValidation, field, d, moneyLimit)
	}
	return nil
}
