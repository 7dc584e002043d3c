package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counts order book and report activity. A nil *LedgerMetrics
// is valid and records nothing.
type LedgerMetrics struct {
	ordersCreated    prometheus.Counter
	ordersRolledBack prometheus.Counter
	numberCollisions prometheus.Counter
	orderAmount      prometheus.Histogram
	reportExports    *prometheus.CounterVec
}

func NewLedgerMetrics(registerer prometheus.Registerer) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LedgerMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ledger_orders_created_total",
			Help: "Total number of orders committed",
		}),
		ordersRolledBack: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ledger_orders_rolled_back_total",
			Help: "Total number of order creations rolled back",
		}),
		numberCollisions: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ledger_order_number_collisions_total",
			Help: "Total number of generated order numbers that were already taken",
		}),
		orderAmount: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "ledger_order_total_amount",
			Help:    "Total amount of committed orders",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		reportExports: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ledger_report_exports_total",
			Help: "Total number of report exports by result",
		}, []string{"result"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func (m *LedgerMetrics) RecordOrderCreated(amount float64) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderAmount.Observe(amount)
}

func (m *LedgerMetrics) RecordOrderRolledBack() {
	if m == nil {
		return
	}
	m.ordersRolledBack.Inc()
}

func (m *LedgerMetrics) RecordOrderNumberCollision() {
	if m == nil {
		return
	}
	m.numberCollisions.Inc()
}

// RecordReportExport counts an export attempt; result is "ok" or "error".
func (m *LedgerMetrics) RecordReportExport(result string) {
	if m == nil {
		return
	}
	m.reportExports.WithLabelValues(result).Inc()
}
