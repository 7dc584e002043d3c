package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Skotchmaster/order_ledger/internal/db"
	"github.com/Skotchmaster/order_ledger/internal/logging"
	"github.com/Skotchmaster/order_ledger/internal/models"
	"github.com/Skotchmaster/order_ledger/internal/repo"
	"github.com/Skotchmaster/order_ledger/internal/transport"
)

type CatalogService struct {
	Gateway *db.Gateway
}

func (s *CatalogService) AddSupplier(ctx context.Context, req transport.CreateSupplierRequest) (*models.Supplier, error) {
	l := logging.FromContext(ctx).WithField("op", "catalog.add_supplier")

	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		l.WithError(err).Warn("add_supplier_error")
		return nil, err
	}

	supplier := &models.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}

	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		r := &repo.GormRepo{DB: tx}
		return r.CreateSupplier(ctx, supplier)
	})
	if err != nil {
		l.WithError(err).Error("add_supplier_error")
		return nil, err
	}

	l.WithField("supplier_id", supplier.ID).Info("add_supplier_success")
	return supplier, nil
}

func (s *CatalogService) AddProduct(ctx context.Context, supplierID uint, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).WithField("op", "catalog.add_product")

	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		l.WithError(err).Warn("add_product_error")
		return nil, err
	}
	if err := checkMoney("price", req.Price); err != nil {
		l.WithError(err).Warn("add_product_error")
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		SupplierID:  supplierID,
	}

	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		r := &repo.GormRepo{DB: tx}
		if _, err := r.GetSupplier(ctx, supplierID); err != nil {
			return err
		}
		return r.CreateProduct(ctx, product)
	})
	if err != nil {
		l.WithError(err).Warn("add_product_error")
		return nil, err
	}

	l.WithFields(logrus.Fields{"product_id": product.ID, "supplier_id": supplierID}).Info("add_product_success")
	return product, nil
}

func (s *CatalogService) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier *models.Supplier
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		var err error
		supplier, err = (&repo.GormRepo{DB: tx}).GetSupplier(ctx, id)
		return err
	})
	return supplier, err
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product *models.Product
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		var err error
		product, err = (&repo.GormRepo{DB: tx}).GetProduct(ctx, id)
		return err
	})
	return product, err
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.Gateway.WithSession(ctx, func(tx *gorm.DB) error {
		var err error
		products, err = (&repo.GormRepo{DB: tx}).ListProducts(ctx)
		return err
	})
	return products, err
}
