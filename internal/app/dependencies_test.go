package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/domain"
	"github.com/vladislavdragonenkov/dealmate/internal/health"
)

func newTestDependencies(t *testing.T, mutate func(*Config)) *Dependencies {
	t.Helper()

	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}

	deps, err := NewDependencies(cfg, log.WithField("test", "dependencies"), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewDependencies: %v", err)
	}
	return deps
}

func TestNewDependencies(t *testing.T) {
	deps := newTestDependencies(t, nil)

	if deps.Store == nil {
		t.Error("Store should not be nil")
	}
	if deps.Accounts == nil {
		t.Error("Accounts should not be nil")
	}
	if deps.Listings == nil {
		t.Error("Listings should not be nil")
	}
	if deps.Orders == nil {
		t.Error("Orders should not be nil")
	}
	if deps.Health == nil {
		t.Error("Health should not be nil")
	}
	if deps.Metrics == nil {
		t.Error("Metrics should not be nil")
	}

	if got := len(deps.Accounts.All()); got != 2 {
		t.Errorf("expected 2 seeded accounts, got %d", got)
	}
	if got := deps.Health.Report().Status; got != health.StatusHealthy {
		t.Errorf("expected healthy storage, got %s", got)
	}
}

func TestNewDependencies_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = ""

	if _, err := NewDependencies(cfg, nil, prometheus.NewRegistry()); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}

func TestNewDependencies_NoSeed(t *testing.T) {
	deps := newTestDependencies(t, func(c *Config) { c.SeedAccounts = false })

	if got := len(deps.Accounts.All()); got != 0 {
		t.Errorf("expected no accounts, got %d", got)
	}
}

func TestNewDependencies_EnforceListingOwner(t *testing.T) {
	deps := newTestDependencies(t, func(c *Config) { c.EnforceListingOwner = true })

	_, err := deps.Listings.Add(domain.Listing{Name: "Lamp", Price: decimal.RequireFromString("12.50"), SellerID: 99})
	if !errors.Is(err, domain.ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}

	if _, err := deps.Listings.Add(domain.Listing{Name: "Lamp", Price: decimal.RequireFromString("12.50"), SellerID: 1}); err != nil {
		t.Fatalf("seeded seller should be accepted: %v", err)
	}
}

func TestNewDependencies_DegradedOnMalformedRows(t *testing.T) {
	dir := t.TempDir()
	content := "id,name,price,sellerId\n1,Lamp,12.50,1\nbroken-row\n"
	if err := os.WriteFile(filepath.Join(dir, "listings.csv"), []byte(content), 0o600); err != nil {
		t.Fatalf("write listings: %v", err)
	}

	deps := newTestDependencies(t, func(c *Config) { c.DataDir = dir })

	if got := len(deps.Listings.All()); got != 1 {
		t.Fatalf("expected 1 listing, got %d", got)
	}
	if got := deps.Health.Report().Status; got != health.StatusDegraded {
		t.Errorf("expected degraded storage, got %s", got)
	}
}

func TestDependencies_Reload(t *testing.T) {
	deps := newTestDependencies(t, nil)

	content := "id,name,price,sellerId\n7,Chair,40,1\n"
	if err := os.WriteFile(deps.Store.Path("listings"), []byte(content), 0o600); err != nil {
		t.Fatalf("write listings: %v", err)
	}

	if err := deps.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, err := deps.Listings.Get(7); err != nil {
		t.Errorf("expected listing 7 after reload: %v", err)
	}
}
