package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/parceldesk/courier/internal/server"
	"github.com/parceldesk/courier/internal/shopify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Local runs keep credentials in a .env file; deployed runs use real
	// environment variables.
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "courier",
	Short:   "Parceldesk courier engine - multi-courier shipment booking service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the booking API server",
	RunE:  runServe,
}

var syncShopifyCmd = &cobra.Command{
	Use:   "sync-shopify <client-id> <client-name>",
	Short: "Import open Shopify orders as pending shipments",
	Args:  cobra.ExactArgs(2),
	RunE:  runSyncShopify,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncShopifyCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	deps, err := initDependencies(ctx, cfg, logger, tracer)
	if err != nil {
		return err
	}
	defer deps.Close()

	logger.Info("Starting Parceldesk courier engine",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Strings("couriers", deps.Registry.Names()),
	)

	srv := server.New(server.Config{Port: cfg.Port}, deps.Engine, deps.Shipments, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runSyncShopify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clientID, clientName := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ShopifyShopDomain == "" || cfg.ShopifyAccessToken == "" {
		return fmt.Errorf("SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN must be set")
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	deps, err := initDependencies(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer deps.Close()

	api := shopify.NewClient(cfg.ShopifyShopDomain, cfg.ShopifyAccessToken)
	importer := shopify.NewImporter(api, deps.Shipments, logger, deps.Metrics)

	result, err := importer.Sync(ctx, clientID, clientName)
	if err != nil {
		return fmt.Errorf("shopify sync failed: %w", err)
	}

	fmt.Printf("fetched %d orders, imported %d, skipped %d already imported\n",
		result.Fetched, result.Imported, result.Skipped)
	return nil
}
