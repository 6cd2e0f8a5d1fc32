package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/health"
	"github.com/vladislavdragonenkov/dealmate/internal/metrics"
	"github.com/vladislavdragonenkov/dealmate/internal/storage/flatfile"
	"github.com/vladislavdragonenkov/dealmate/internal/version"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Config   Config
	Store    *flatfile.Store
	Accounts *flatfile.AccountRepository
	Listings *flatfile.ListingRepository
	Orders   *flatfile.OrderRepository
	Health   *health.Handler
	Metrics  *metrics.StorageMetrics
	Logger   *log.Entry
}

// NewDependencies открывает хранилище в cfg.DataDir и загружает кэши аккаунтов и объявлений.
// registerer == nil означает реестр Prometheus по умолчанию.
func NewDependencies(cfg Config, logger *log.Entry, registerer prometheus.Registerer) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	storageMetrics := metrics.NewStorageMetricsWithRegisterer(registerer)
	store, err := flatfile.NewStore(cfg.DataDir,
		flatfile.WithLogger(logger.WithField("layer", "storage")),
		flatfile.WithMetrics(storageMetrics),
	)
	if err != nil {
		return nil, err
	}

	accounts, err := flatfile.NewAccountRepository(store, flatfile.WithDefaultAccounts(cfg.SeedAccounts))
	if err != nil {
		return nil, err
	}

	var listingOpts []flatfile.ListingOption
	if cfg.EnforceListingOwner {
		listingOpts = append(listingOpts, flatfile.WithOwnerCheck(accounts))
	}
	listings, err := flatfile.NewListingRepository(store, listingOpts...)
	if err != nil {
		return nil, err
	}

	orders := flatfile.NewOrderRepository(store, accounts, listings)

	healthHandler := health.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", health.NewStorageChecker("storage", store.Ping, store.DegradedCollections))

	return &Dependencies{
		Config:   cfg,
		Store:    store,
		Accounts: accounts,
		Listings: listings,
		Orders:   orders,
		Health:   healthHandler,
		Metrics:  storageMetrics,
		Logger:   logger,
	}, nil
}

// Reload перечитывает кэши аккаунтов и объявлений из файлов.
func (d *Dependencies) Reload() error {
	if err := d.Accounts.Reload(); err != nil {
		return err
	}
	return d.Listings.Reload()
}
