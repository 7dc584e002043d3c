package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/order_ledger/internal/models"
)

func (r *GormRepo) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return translate(r.DB.WithContext(ctx).Create(supplier).Error, "create supplier")
}

func (r *GormRepo) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier := models.Supplier{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&supplier).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("supplier %d", id))
	}
	return &supplier, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(product).Error, "create product")
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("product %d", id))
	}
	return &product, nil
}

// FindProducts loads the given products keyed by id. Missing ids are simply absent.
func (r *GormRepo) FindProducts(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, translate(err, "find products")
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return products, nil
}
