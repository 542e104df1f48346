package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/go2hand/go2hand/internal/accounts"
	"github.com/go2hand/go2hand/internal/api/handlers"
	mw "github.com/go2hand/go2hand/internal/api/middleware"
	"github.com/go2hand/go2hand/internal/catalog"
	"github.com/go2hand/go2hand/internal/config"
	"github.com/go2hand/go2hand/internal/orders"
	"github.com/go2hand/go2hand/internal/supabase"
	"github.com/go2hand/go2hand/internal/taxonomy"
	"github.com/go2hand/go2hand/internal/telemetry"
	"github.com/go2hand/go2hand/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Optional .env for local development; the config file references
	// SUPABASE_URL and SUPABASE_ANON_KEY through ${VAR} expansion.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(cmd.Context(), cfg.Telemetry.Endpoint, Version)
		if err != nil {
			return fmt.Errorf("setting up telemetry: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Warn("telemetry shutdown failed", "error", err)
			}
		}()
	}

	backend := supabase.NewRestClient(
		cfg.Supabase.URL,
		cfg.Supabase.AnonKey,
		supabase.WithSchema(cfg.Supabase.Schema),
	)
	auth := supabase.NewAuthClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	storage := supabase.NewStorageClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)

	catalogSvc := catalog.NewService(backend, log)
	taxonomySvc := taxonomy.NewService(backend)
	orderSvc := orders.NewService(backend)
	accountSvc := accounts.NewService(auth, backend, storage)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(mw.Recovery(log))
	e.Use(mw.RequestLog(log))
	e.Use(mw.Metrics())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		// Ready when the backend answers a trivial lookup.
		if _, err := backend.LookupID(c.Request().Context(), "categories", "slug", "smartphones"); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("go2hand API", Version))
	handlers.RegisterDeviceRoutes(api, handlers.NewDevicesHandler(catalogSvc, handlers.CatalogDefaults{
		PageSize:      cfg.Catalog.PageSize,
		FeaturedLimit: cfg.Catalog.FeaturedLimit,
		SimilarLimit:  cfg.Catalog.SimilarLimit,
	}))
	handlers.RegisterTaxonomyRoutes(api, handlers.NewTaxonomyHandler(taxonomySvc))
	handlers.RegisterOrderRoutes(api, handlers.NewOrdersHandler(orderSvc))
	handlers.RegisterAccountRoutes(api, handlers.NewAccountsHandler(accountSvc))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
