package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/order_ledger/internal/domain"
)

// GormRepo runs queries on whatever handle it is given. Services build one
// per unit of work around the transaction handle from db.Gateway.WithSession.
type GormRepo struct {
	DB *gorm.DB
}

func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s: %w", domain.ErrIntegrity, what, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s: %w", domain.ErrIntegrity, what, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
