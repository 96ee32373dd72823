package main

import (
	"context"
	"fmt"

	"github.com/parceldesk/courier/internal/booking"
	"github.com/parceldesk/courier/internal/config"
	"github.com/parceldesk/courier/internal/fulfillment"
	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/internal/telemetry"
	"github.com/parceldesk/courier/pkg/courier"
	"github.com/parceldesk/courier/pkg/courier/bluedart"
	"github.com/parceldesk/courier/pkg/courier/dtdc"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

// dependencies bundles the wired engine and its collaborators.
type dependencies struct {
	Registry  *courier.Registry
	Shipments store.ShipmentStore
	Pickups   store.PickupAddressStore
	Engine    *booking.Engine
	Metrics   *telemetry.Metrics

	closeStore func() error
}

// Close releases held resources.
func (d *dependencies) Close() {
	if d.closeStore != nil {
		d.closeStore()
	}
}

func initDependencies(ctx context.Context, cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*dependencies, error) {
	deps := &dependencies{
		Registry: initCourierRegistry(cfg, logger, tracer),
		Metrics:  telemetry.NewMetrics(),
	}

	if cfg.UseMemoryStore {
		mem := store.NewMemoryStore()
		deps.Shipments = mem
		deps.Pickups = mem
	} else {
		client, err := store.NewFirestoreClient(ctx, cfg.FirestoreCredentials)
		if err != nil {
			return nil, fmt.Errorf("initializing firestore: %w", err)
		}
		fs := store.NewFirestoreStore(client)
		deps.Shipments = fs
		deps.Pickups = fs
		deps.closeStore = fs.Close
	}

	var notifier fulfillment.Notifier = fulfillment.NopNotifier{}
	if cfg.FulfillmentEnabled && cfg.PortalBaseURL != "" {
		notifier = fulfillment.NewHTTPNotifier(cfg.PortalBaseURL, logger)
	}

	deps.Engine = booking.New(deps.Shipments, deps.Pickups, deps.Registry, notifier, logger, deps.Metrics)
	return deps, nil
}

func initCourierRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *courier.Registry {
	registry := courier.NewRegistry()

	if cfg.BlueDartEnabled {
		bd := bluedart.New(bluedart.Config{
			ClientID:     cfg.BlueDartClientID,
			ClientSecret: cfg.BlueDartClientSecret,
			LoginID:      cfg.BlueDartLoginID,
			LicenceKey:   cfg.BlueDartLicenceKey,
			BaseURL:      cfg.BlueDartBaseURL,
			B2CAccount:   cfg.BlueDartB2CAccount,
			UseMock:      cfg.BlueDartUseMock,
		}, logger, tracer)
		registry.Register(bd)
	}

	if cfg.DTDCEnabled {
		dt := dtdc.New(dtdc.Config{
			APIKey:       cfg.DTDCAPIKey,
			CustomerCode: cfg.DTDCCustomerCode,
			BaseURL:      cfg.DTDCBaseURL,
			UseMock:      cfg.DTDCUseMock,
		}, logger, tracer)
		registry.Register(dt)
	}

	return registry
}
