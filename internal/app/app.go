// Package app assembles the ledger from configuration: logger, store gateway,
// services, metrics and the optional event producer.
package app

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/order_ledger/internal/config"
	"github.com/Skotchmaster/order_ledger/internal/db"
	"github.com/Skotchmaster/order_ledger/internal/logging"
	"github.com/Skotchmaster/order_ledger/internal/metrics"
	"github.com/Skotchmaster/order_ledger/internal/models"
	"github.com/Skotchmaster/order_ledger/internal/mykafka"
	"github.com/Skotchmaster/order_ledger/internal/report"
	"github.com/Skotchmaster/order_ledger/internal/seed"
	"github.com/Skotchmaster/order_ledger/internal/service"
)

type App struct {
	Config   *config.Config
	Log      *logrus.Entry
	Gateway  *db.Gateway
	Registry *prometheus.Registry

	Catalog *service.CatalogService
	Orders  *service.OrderService
	Reports *service.ReportService
	Filler  *seed.Filler

	producer *mykafka.Producer
}

// New wires everything but does not touch the store; the gateway connects on
// first use.
func New(cfg *config.Config) (*App, error) {
	log := logrus.NewEntry(logging.New(cfg.LogLevel, cfg.LogFormat)).WithField("service", "order_ledger")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewLedgerMetrics(reg)

	g := db.NewGateway(cfg.DatabaseURL, log)

	orders := &service.OrderService{
		Gateway:           g,
		Metrics:           m,
		Topic:             cfg.KafkaOrderTopic,
		MaxNumberAttempts: cfg.OrderNumberAttempts,
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Gateway:  g,
		Registry: reg,
		Catalog:  &service.CatalogService{Gateway: g},
		Orders:   orders,
	}
	a.Reports = &service.ReportService{Orders: orders, Generator: report.ODTWriter{}, Metrics: m}
	a.Filler = &seed.Filler{Catalog: a.Catalog, Orders: orders}

	if cfg.KafkaEnabled() {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return nil, err
		}
		a.producer = p
		orders.Producer = p
		log.WithField("brokers", cfg.KafkaBrokers).Info("kafka_producer_enabled")
	}
	return a, nil
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return logging.IntoContext(ctx, a.Log)
}

// Init connects to the store and creates any missing tables.
func (a *App) Init(ctx context.Context) error {
	return a.Gateway.EnsureSchema(ctx, models.Schema())
}

func (a *App) Close() error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Gateway.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
