package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/order_ledger/internal/logging"
	"github.com/Skotchmaster/order_ledger/internal/metrics"
	"github.com/Skotchmaster/order_ledger/internal/report"
)

// ReportService reads committed orders and hands them to a report.Generator.
// Nothing it does writes to the store.
type ReportService struct {
	Orders    *OrderService
	Generator report.Generator
	Metrics   *metrics.LedgerMetrics
}

func (s *ReportService) views(ctx context.Context) ([]report.OrderView, error) {
	details, err := s.Orders.ListOrderDetails(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]report.OrderView, len(details))
	for i, d := range details {
		views[i] = d.View()
	}
	return views, nil
}

// Export writes the report to path and returns how many orders it contains.
func (s *ReportService) Export(ctx context.Context, path string) (int, error) {
	l := logging.FromContext(ctx).WithField("op", "report.export")
	if path == "" {
		path = report.DefaultPath
	}

	views, err := s.views(ctx)
	if err != nil {
		s.Metrics.RecordReportExport("error")
		l.WithError(err).Error("export_report_error")
		return 0, err
	}
	if err := s.Generator.Generate(path, views); err != nil {
		s.Metrics.RecordReportExport("error")
		l.WithError(err).WithField("path", path).Error("export_report_error")
		return 0, err
	}

	s.Metrics.RecordReportExport("ok")
	l.WithFields(logrus.Fields{"path": path, "orders": len(views)}).Info("export_report_success")
	return len(views), nil
}

// Render streams the report to w through the configured Generator and returns
// the document's content type.
func (s *ReportService) Render(ctx context.Context, w io.Writer) (string, error) {
	streamer, ok := s.Generator.(report.Streamer)
	if !ok {
		return "", fmt.Errorf("report generator %T cannot stream", s.Generator)
	}

	views, err := s.views(ctx)
	if err != nil {
		s.Metrics.RecordReportExport("error")
		return "", err
	}
	if err := streamer.Write(w, views); err != nil {
		s.Metrics.RecordReportExport("error")
		return "", err
	}
	s.Metrics.RecordReportExport("ok")
	return streamer.ContentType(), nil
}

func (s *ReportService) WriteListing(ctx context.Context, w io.Writer) error {
	views, err := s.views(ctx)
	if err != nil {
		return err
	}
	return report.WriteListing(w, views)
}
