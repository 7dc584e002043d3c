package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/order_ledger/internal/app"
	"github.com/Skotchmaster/order_ledger/internal/config"
	"github.com/Skotchmaster/order_ledger/internal/httpserver"
	loggingmw "github.com/Skotchmaster/order_ledger/internal/middleware/logging"
)

const usage = `usage: ledger [command] [flags]

commands:
  init     create missing tables
  seed     load the Waosa sample catalog and orders
  list     print all orders
  export   write the ODT report (-o path)
  serve    run the read-only HTTP API
  demo     init, seed, list and export (default)
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ledger:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := "demo"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	out := fs.String("o", cfg.ReportPath, "report output path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Log.WithError(err).Warn("close_error")
		}
	}()
	ctx = a.Context(ctx)

	switch cmd {
	case "init", "seed", "list", "export", "serve", "demo":
		if err := a.Init(ctx); err != nil {
			return err
		}
	}

	switch cmd {
	case "init":
		return nil
	case "seed":
		_, err := a.Filler.Fill(ctx)
		return err
	case "list":
		return a.Reports.WriteListing(ctx, stdout)
	case "export":
		return export(ctx, a, *out, stdout)
	case "serve":
		return serve(ctx, a)
	case "demo":
		if _, err := a.Filler.Fill(ctx); err != nil {
			return err
		}
		if err := a.Reports.WriteListing(ctx, stdout); err != nil {
			return err
		}
		return export(ctx, a, *out, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func export(ctx context.Context, a *app.App, path string, stdout io.Writer) error {
	n, err := a.Reports.Export(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "report %s written with %d orders\n", path, n)
	return nil
}

func serve(ctx context.Context, a *app.App) error {
	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(loggingmw.RequestLogger(a.Log))

	httpserver.Register(e, &httpserver.Deps{
		Gateway:        a.Gateway,
		OrderHandler:   &httpserver.OrderHTTP{Orders: a.Orders, Reports: a.Reports},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: a.Catalog},
		Gatherer:       a.Registry,
	})

	srv := &http.Server{
		Addr:              a.Config.ListenAddr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", srv.Addr).Info("http_listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.Log.Info("shutdown_complete")
	return nil
}
