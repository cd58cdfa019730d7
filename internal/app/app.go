package app

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/evdealer-wizard/internal/dealerapi"
	"github.com/xenking/evdealer-wizard/internal/wizard"
	"github.com/xenking/evdealer-wizard/pkg/httpclient"
)

// Backend bundles the repositories of one authenticated backend client.
type Backend struct {
	Client     *dealerapi.Client
	Customers  *dealerapi.CustomerRepository
	Orders     *dealerapi.OrderRepository
	Catalog    *dealerapi.CatalogRepository
	Promotions *dealerapi.PromotionRepository
}

// providers returns the telemetry providers of m, or nil ones when m is nil.
func providers(m *app.Telemetry) (trace.TracerProvider, metric.MeterProvider) {
	if m == nil {
		return nil, nil
	}
	return m.TracerProvider(), m.MeterProvider()
}

// NewBackend validates cfg and creates the backend client with its
// repositories. It is the single wiring point of the REST stack.
func NewBackend(cfg *Config, m *app.Telemetry) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tp, mp := providers(m)

	httpClient := httpclient.New(httpclient.Config{
		Timeout:        cfg.Backend.Timeout,
		UserAgent:      cfg.Backend.UserAgent,
		TracerProvider: tp,
		MeterProvider:  mp,
	})
	client, err := dealerapi.NewClient(cfg.Backend.URL, cfg.AuthSession(), httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "create backend client")
	}

	return &Backend{
		Client:     client,
		Customers:  dealerapi.NewCustomerRepository(client),
		Orders:     dealerapi.NewOrderRepository(client),
		Catalog:    dealerapi.NewCatalogRepository(client),
		Promotions: dealerapi.NewPromotionRepository(client),
	}, nil
}

// NewWizard creates a wizard over the backend.
func NewWizard(lg *zap.Logger, m *app.Telemetry, cfg *Config, b *Backend) (*wizard.Wizard, error) {
	wcfg := cfg.wizardConfig()
	wcfg.Logger = lg.Named("wizard")
	wcfg.TracerProvider, wcfg.MeterProvider = providers(m)

	w, err := wizard.New(wcfg, b.Customers, b.Orders, b.Catalog, b.Promotions)
	if err != nil {
		return nil, errors.Wrap(err, "create wizard")
	}
	return w, nil
}
