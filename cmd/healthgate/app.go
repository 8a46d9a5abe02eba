package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/healthgate/auth"
	"github.com/jonwraymond/healthgate/config"
	"github.com/jonwraymond/healthgate/endpoint"
	"github.com/jonwraymond/healthgate/health"
	"github.com/jonwraymond/healthgate/observe"
)

// app holds the wired components of a running healthgate.
type app struct {
	cfg        *config.Config
	observer   observe.Observer
	logger     observe.Logger
	registry   *health.MemoryRegistry
	aggregator *health.Aggregator
	handler    *endpoint.Handler
	authn      auth.Authenticator
	metrics    *promclient.Registry
	indicators io.Closer
}

// newApp resolves secrets and builds every component described by cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	resolver, err := cfg.SecretResolver()
	if err != nil {
		return nil, err
	}
	defer func() { _ = resolver.Close() }()

	if err := cfg.Resolve(ctx, resolver); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, metrics: promclient.NewRegistry()}

	obsCfg, err := cfg.Observe.ToObserve()
	if err != nil {
		return nil, err
	}
	obsCfg.Metrics.Registerer = a.metrics
	a.observer, err = observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	a.logger = a.observer.Logger()

	mw, err := observe.MiddlewareFromObserver(a.observer)
	if err != nil {
		_ = a.observer.Shutdown(ctx)
		return nil, err
	}

	inds, closer, err := cfg.Indicators.Build()
	if err != nil {
		_ = a.observer.Shutdown(ctx)
		return nil, err
	}
	a.indicators = closer

	a.registry, err = health.NewMemoryRegistry(inds...)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	a.aggregator = health.NewAggregator(a.registry, health.WithDecorator(mw.Decorator()))
	a.authn = cfg.Auth.Authenticator()
	a.handler = endpoint.NewHandler(a.aggregator,
		endpoint.WithGate(cfg.Auth.Gate()),
		endpoint.WithLogger(a.logger),
	)

	a.logger.Info(ctx, "healthgate configured",
		observe.Field{Key: "indicators", Value: a.registry.Names()},
		observe.Field{Key: "realm", Value: cfg.Auth.Realm},
		observe.Field{Key: "authentication", Value: a.authn != nil},
	)
	return a, nil
}

// engine returns the HTTP surface: health routes and, when the prometheus
// exporter is active, the metrics route.
func (a *app) engine() *gin.Engine {
	e := endpoint.NewGinEngine(a.handler, a.authn)
	if a.cfg.Observe.Metrics.Enabled && a.cfg.Observe.Metrics.Exporter == "prometheus" {
		e.GET(a.cfg.Server.MetricsPath, gin.WrapH(promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{})))
	}
	return e
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.indicators != nil {
		if err := a.indicators.Close(); err != nil {
			errs = append(errs, fmt.Errorf("indicators: %w", err))
		}
	}
	if a.observer != nil {
		if err := a.observer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
