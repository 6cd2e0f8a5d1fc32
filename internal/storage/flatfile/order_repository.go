package flatfile

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/domain"
	"github.com/vladislavdragonenkov/dealmate/internal/metrics"
)

// orderRow — денормализованная позиция заказа, одна строка файла.
type orderRow struct {
	OrderID   int
	AccountID int
	ListingID int
	Quantity  int
}

var orderRowSchema = Schema[orderRow]{
	Collection: CollectionOrders,
	Header:     orderRowHeader,
	Encode: func(row orderRow) []string {
		return []string{
			strconv.Itoa(row.OrderID),
			strconv.Itoa(row.AccountID),
			strconv.Itoa(row.ListingID),
			strconv.Itoa(row.Quantity),
		}
	},
	Decode: func(fields []string) (orderRow, error) {
		var values [4]int
		for i, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return orderRow{}, fmt.Errorf("parse %s: %w", orderRowHeader[i], err)
			}
			values[i] = v
		}
		if values[3] <= 0 {
			return orderRow{}, domain.ErrLineQtyInvalid
		}
		return orderRow{OrderID: values[0], AccountID: values[1], ListingID: values[2], Quantity: values[3]}, nil
	},
}

var orderRowHeader = []string{"orderId", "accountId", "listingId", "quantity"}

// OrderRepository хранит заказы строками (orderId, accountId, listingId, quantity)
// и восстанавливает их при чтении, разрешая ссылки через репозитории аккаунтов
// и объявлений. Кэша нет: каждое чтение идёт в файл.
type OrderRepository struct {
	store    *Store
	codec    *Codec[orderRow]
	mu       *sync.RWMutex
	logger   *log.Entry
	metrics  *metrics.StorageMetrics
	accounts domain.AccountLookup
	listings domain.ListingLookup
}

// NewOrderRepository создаёт репозиторий заказов поверх lookups аккаунтов и объявлений.
func NewOrderRepository(store *Store, accounts domain.AccountLookup, listings domain.ListingLookup) *OrderRepository {
	logger := store.collectionLogger(CollectionOrders)
	return &OrderRepository{
		store:    store,
		codec:    NewCodec(orderRowSchema, logger, store.metrics),
		mu:       store.lock(CollectionOrders),
		logger:   logger,
		metrics:  store.metrics,
		accounts: accounts,
		listings: listings,
	}
}

// All восстанавливает заказы в порядке строк файла.
func (r *OrderRepository) All() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.loadRows()
	if err != nil {
		return nil, err
	}
	return r.reconstruct(rows), nil
}

// Get возвращает первый заказ с указанным идентификатором или ErrOrderNotFound.
func (r *OrderRepository) Get(id int) (domain.Order, error) {
	orders, err := r.All()
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// ListByAccount возвращает заказы покупателя в порядке строк файла.
func (r *OrderRepository) ListByAccount(accountID int) ([]domain.Order, error) {
	orders, err := r.All()
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.AccountID == accountID {
			result = append(result, o)
		}
	}
	return result, nil
}

// SaveOrder присваивает заказу идентификатор max(orderId)+1 и дописывает его строки
// одним непрерывным блоком в конец файла. Существующие строки переносятся как есть,
// поэтому позиции с пока не разрешающимися объявлениями не теряются.
// Каждая позиция должна ссылаться на существующее объявление.
func (r *OrderRepository) SaveOrder(order domain.Order) (domain.Order, error) {
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("invalid order: %w", errors.Join(errs...))
	}
	for _, line := range order.Lines {
		if _, err := r.listings.Get(line.ListingID); err != nil {
			return domain.Order{}, fmt.Errorf("listing %d: %w", line.ListingID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.loadRows()
	if err != nil {
		return domain.Order{}, err
	}

	order.ID = NextID(idsOf(rows, rowOrderID), DefaultIDSeed)
	added := make([]orderRow, 0, len(order.Lines))
	for _, line := range order.Lines {
		added = append(added, orderRow{
			OrderID:   order.ID,
			AccountID: order.AccountID,
			ListingID: line.ListingID,
			Quantity:  line.Quantity,
		})
	}
	rows = append(rows, added...)

	if err := r.codec.Save(r.store.Path(CollectionOrders), rows); err != nil {
		r.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		return domain.Order{}, fmt.Errorf("save orders: %w", err)
	}

	saved := r.reconstruct(added)[0]
	r.logger.WithFields(log.Fields{
		"order_id":   saved.ID,
		"account_id": saved.AccountID,
		"lines":      len(saved.Lines),
	}).Info("order saved")
	return saved, nil
}

func (r *OrderRepository) loadRows() ([]orderRow, error) {
	rows, report, err := r.codec.Load(r.store.Path(CollectionOrders))
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	r.store.recordLoad(CollectionOrders, report)
	return rows, nil
}

// reconstruct группирует строки по смежности: новый заказ начинается, когда orderId
// отличается от предыдущей строки. Строки одного заказа, разнесённые по файлу,
// дают несколько заказов с одинаковым ID.
func (r *OrderRepository) reconstruct(rows []orderRow) []domain.Order {
	orders := make([]domain.Order, 0)
	lastOrderID := 0

	for i, row := range rows {
		if i == 0 || row.OrderID != lastOrderID {
			orders = append(orders, domain.Order{
				ID:        row.OrderID,
				AccountID: row.AccountID,
				Purchaser: r.resolvePurchaser(row.OrderID, row.AccountID),
				Lines:     make([]domain.OrderLine, 0, 1),
			})
			lastOrderID = row.OrderID
		}

		listing, err := r.listings.Get(row.ListingID)
		if err != nil {
			r.metrics.RecordLineDropped()
			r.logger.WithFields(log.Fields{
				"order_id":   row.OrderID,
				"listing_id": row.ListingID,
				"quantity":   row.Quantity,
			}).Warn("order line dropped: listing not found")
			continue
		}

		current := &orders[len(orders)-1]
		current.Lines = append(current.Lines, domain.OrderLine{
			ListingID: row.ListingID,
			Quantity:  row.Quantity,
			Listing:   listing,
		})
	}

	return orders
}

func (r *OrderRepository) resolvePurchaser(orderID, accountID int) domain.Purchaser {
	account, err := r.accounts.Get(accountID)
	if err != nil {
		r.metrics.RecordUnknownPurchaser()
		r.logger.WithFields(log.Fields{
			"order_id":   orderID,
			"account_id": accountID,
		}).Warn("order account not found")
		return domain.UnknownPurchaser(accountID)
	}
	return domain.KnownPurchaser(account)
}

func rowOrderID(row orderRow) int { return row.OrderID }

var _ domain.OrderRepository = (*OrderRepository)(nil)
