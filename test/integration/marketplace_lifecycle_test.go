package integration

import (
	"os"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/dealmate/internal/app"
	"github.com/vladislavdragonenkov/dealmate/internal/domain"
	"github.com/vladislavdragonenkov/dealmate/internal/health"
)

// MarketplaceLifecycleTestSuite проходит путь аккаунт → объявление → заказ через файлы на диске.
type MarketplaceLifecycleTestSuite struct {
	suite.Suite
	dir    string
	logger *log.Entry
	deps   *app.Dependencies
}

func (suite *MarketplaceLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	suite.logger = baseLogger.WithField("component", "integration-test")

	suite.dir = suite.T().TempDir()
	suite.deps = suite.open()
}

// open открывает хранилище заново, как при новом запуске процесса.
func (suite *MarketplaceLifecycleTestSuite) open() *app.Dependencies {
	cfg := app.DefaultConfig()
	cfg.DataDir = suite.dir
	cfg.EnforceListingOwner = true

	deps, err := app.NewDependencies(cfg, suite.logger, prometheus.NewRegistry())
	suite.Require().NoError(err)
	return deps
}

func (suite *MarketplaceLifecycleTestSuite) TestOrderSurvivesRestart() {
	seller, err := suite.deps.Accounts.Register(domain.Account{
		Name: "Shop", Email: "shop@deal.com", Password: "pw", Role: domain.RoleSeller,
	})
	suite.Require().NoError(err)

	buyer, err := suite.deps.Accounts.Authenticate("BUYER@deal.com", "1234")
	suite.Require().NoError(err)

	lamp, err := suite.deps.Listings.Add(domain.Listing{Name: "Lamp", Price: decimal.RequireFromString("12.50"), SellerID: seller.ID})
	suite.Require().NoError(err)
	mug, err := suite.deps.Listings.Add(domain.Listing{Name: "Mug", Price: decimal.RequireFromString("3.20"), SellerID: seller.ID})
	suite.Require().NoError(err)

	placed, err := suite.deps.Orders.SaveOrder(domain.Order{
		AccountID: buyer.ID,
		Lines: []domain.OrderLine{
			{ListingID: lamp.ID, Quantity: 2},
			{ListingID: mug.ID, Quantity: 1},
		},
	})
	suite.Require().NoError(err)
	suite.Equal(1, placed.ID)
	suite.True(placed.Total().Equal(decimal.RequireFromString("28.20")))

	reopened := suite.open()

	account, err := reopened.Accounts.Authenticate("shop@deal.com", "pw")
	suite.Require().NoError(err)
	suite.Equal(seller, account)

	orders, err := reopened.Orders.ListByAccount(buyer.ID)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(placed.ID, orders[0].ID)
	suite.True(orders[0].Purchaser.Known)
	suite.Equal("Buyer", orders[0].Purchaser.Account.Name)
	suite.Require().Len(orders[0].Lines, 2)
	suite.Equal("Lamp", orders[0].Lines[0].Listing.Name)
	suite.True(orders[0].Total().Equal(placed.Total()))
}

func (suite *MarketplaceLifecycleTestSuite) TestRemovedListingDisappearsFromOrders() {
	lamp, err := suite.deps.Listings.Add(domain.Listing{Name: "Lamp", Price: decimal.NewFromInt(10), SellerID: 1})
	suite.Require().NoError(err)
	chair, err := suite.deps.Listings.Add(domain.Listing{Name: "Chair", Price: decimal.NewFromInt(40), SellerID: 1})
	suite.Require().NoError(err)

	_, err = suite.deps.Orders.SaveOrder(domain.Order{
		AccountID: 2,
		Lines:     []domain.OrderLine{{ListingID: lamp.ID, Quantity: 1}, {ListingID: chair.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.deps.Listings.Remove(lamp.ID))

	order, err := suite.open().Orders.Get(1)
	suite.Require().NoError(err)
	suite.Require().Len(order.Lines, 1)
	suite.Equal(chair.ID, order.Lines[0].ListingID)

	raw, err := os.ReadFile(suite.deps.Store.Path("orders"))
	suite.Require().NoError(err)
	suite.Contains(string(raw), "1,2,1,1", "row of the removed listing stays in the file")
}

func (suite *MarketplaceLifecycleTestSuite) TestOwnerCheckRejectsUnknownSeller() {
	_, err := suite.deps.Listings.Add(domain.Listing{Name: "Ghost", Price: decimal.NewFromInt(1), SellerID: 42})
	suite.ErrorIs(err, domain.ErrSellerNotFound)
	suite.Empty(suite.deps.Listings.All())
}

func (suite *MarketplaceLifecycleTestSuite) TestConcurrentOrdersGetDistinctIDs() {
	lamp, err := suite.deps.Listings.Add(domain.Listing{Name: "Lamp", Price: decimal.NewFromInt(10), SellerID: 1})
	suite.Require().NoError(err)

	const workers = 8
	ids := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := suite.deps.Orders.SaveOrder(domain.Order{
				AccountID: 2,
				Lines:     []domain.OrderLine{{ListingID: lamp.ID, Quantity: 1}},
			})
			if err == nil {
				ids <- order.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		suite.False(seen[id], "duplicate order id %d", id)
		seen[id] = true
	}
	suite.Len(seen, workers)

	orders, err := suite.open().Orders.All()
	suite.Require().NoError(err)
	suite.Len(orders, workers)
}

func (suite *MarketplaceLifecycleTestSuite) TestMalformedRowsDegradeHealth() {
	content := "id,name,email,password,role\n1,Seller,seller@deal.com,1234,seller\nbroken\n2,Buyer,buyer@deal.com,1234\n"
	suite.Require().NoError(os.WriteFile(suite.deps.Store.Path("accounts"), []byte(content), 0o600))

	reopened := suite.open()
	suite.Len(reopened.Accounts.All(), 1)

	report := reopened.Health.Report()
	suite.Equal(health.StatusDegraded, report.Status)
	suite.Contains(report.Checks["storage"].Message, "accounts")
}

func TestMarketplaceLifecycleSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MarketplaceLifecycleTestSuite))
}
