package flatfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/domain"
)

var listingSchema = Schema[domain.Listing]{
	Collection: CollectionListings,
	Header:     []string{"id", "name", "price", "sellerId"},
	Encode: func(l domain.Listing) []string {
		return []string{strconv.Itoa(l.ID), l.Name, l.Price.String(), strconv.Itoa(l.SellerID)}
	},
	Decode: func(fields []string) (domain.Listing, error) {
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return domain.Listing{}, fmt.Errorf("parse id: %w", err)
		}
		price, err := decimal.NewFromString(fields[2])
		if err != nil {
			return domain.Listing{}, fmt.Errorf("parse price: %w", err)
		}
		if price.IsNegative() {
			return domain.Listing{}, domain.ErrPriceNegative
		}
		sellerID, err := strconv.Atoi(fields[3])
		if err != nil {
			return domain.Listing{}, fmt.Errorf("parse seller id: %w", err)
		}
		return domain.Listing{ID: id, Name: fields[1], Price: price, SellerID: sellerID}, nil
	},
}

// ListingOption настраивает ListingRepository.
type ListingOption func(*ListingRepository)

// WithOwnerCheck включает проверку SellerID по аккаунтам при добавлении объявления.
func WithOwnerCheck(accounts domain.AccountLookup) ListingOption {
	return func(r *ListingRepository) {
		r.owners = accounts
	}
}

// ListingRepository хранит объявления в памяти и переписывает файл при каждом изменении.
type ListingRepository struct {
	store  *Store
	codec  *Codec[domain.Listing]
	mu     *sync.RWMutex
	logger *log.Entry
	owners domain.AccountLookup

	listings []domain.Listing
}

// NewListingRepository создаёт репозиторий и загружает объявления из хранилища.
func NewListingRepository(store *Store, options ...ListingOption) (*ListingRepository, error) {
	logger := store.collectionLogger(CollectionListings)
	r := &ListingRepository{
		store:  store,
		codec:  NewCodec(listingSchema, logger, store.metrics),
		mu:     store.lock(CollectionListings),
		logger: logger,
	}
	for _, option := range options {
		option(r)
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload перечитывает объявления из файла, заменяя кэш.
func (r *ListingRepository) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listings, report, err := r.codec.Load(r.store.Path(CollectionListings))
	if err != nil {
		return fmt.Errorf("load listings: %w", err)
	}
	r.store.recordLoad(CollectionListings, report)
	r.listings = listings
	return nil
}

// Add присваивает объявлению идентификатор, добавляет его и сохраняет коллекцию.
// При ошибке записи кэш не откатывается.
func (r *ListingRepository) Add(listing domain.Listing) (domain.Listing, error) {
	if errs := listing.Validate(); len(errs) > 0 {
		return domain.Listing{}, fmt.Errorf("invalid listing: %w", errors.Join(errs...))
	}
	if r.owners != nil {
		if _, err := r.owners.Get(listing.SellerID); err != nil {
			return domain.Listing{}, fmt.Errorf("seller %d: %w", listing.SellerID, domain.ErrSellerNotFound)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	listing.ID = NextID(idsOf(r.listings, listingID), DefaultIDSeed)
	r.listings = append(r.listings, listing)

	if err := r.codec.Save(r.store.Path(CollectionListings), r.listings); err != nil {
		r.logger.WithError(err).WithField("listing_id", listing.ID).Error("failed to persist listing")
		return domain.Listing{}, fmt.Errorf("save listings: %w", err)
	}

	r.logger.WithFields(log.Fields{
		"listing_id": listing.ID,
		"seller_id":  listing.SellerID,
	}).Info("listing added")
	return listing, nil
}

// Remove удаляет объявление по идентификатору и сохраняет коллекцию.
// Если объявления нет, файл не переписывается и возвращается ErrListingNotFound.
func (r *ListingRepository) Remove(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(r.listings) {
		return domain.ErrListingNotFound
	}
	r.listings = kept

	if err := r.codec.Save(r.store.Path(CollectionListings), r.listings); err != nil {
		r.logger.WithError(err).WithField("listing_id", id).Error("failed to persist listing removal")
		return fmt.Errorf("save listings: %w", err)
	}

	r.logger.WithField("listing_id", id).Info("listing removed")
	return nil
}

// Get возвращает объявление или ErrListingNotFound.
func (r *ListingRepository) Get(id int) (domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, domain.ErrListingNotFound
}

// All возвращает копию кэша.
func (r *ListingRepository) All() []domain.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Listing, len(r.listings))
	copy(result, r.listings)
	return result
}

// ListBySeller возвращает объявления продавца в порядке файла.
func (r *ListingRepository) ListBySeller(sellerID int) []domain.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Listing, 0)
	for _, l := range r.listings {
		if l.SellerID == sellerID {
			result = append(result, l)
		}
	}
	return result
}

// Search возвращает объявления, в названии которых встречается query без учёта регистра.
// Пустой запрос или запрос из пробелов даёт пустой результат, а не все объявления.
func (r *ListingRepository) Search(query string) []domain.Listing {
	result := make([]domain.Listing, 0)
	if strings.TrimSpace(query) == "" {
		return result
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.listings {
		if l.MatchesName(query) {
			result = append(result, l)
		}
	}
	return result
}

func listingID(l domain.Listing) int { return l.ID }

var _ domain.ListingRepository = (*ListingRepository)(nil)
