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

var accountSchema = Schema[domain.Account]{
	Collection: CollectionAccounts,
	Header:     []string{"id", "name", "email", "password", "role"},
	Encode: func(a domain.Account) []string {
		return []string{strconv.Itoa(a.ID), a.Name, a.Email, a.Password, string(a.Role)}
	},
	Decode: func(fields []string) (domain.Account, error) {
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return domain.Account{}, fmt.Errorf("parse id: %w", err)
		}
		return domain.Account{
			ID:       id,
			Name:     fields[1],
			Email:    fields[2],
			Password: fields[3],
			Role:     domain.Role(fields[4]),
		}, nil
	},
}

// DefaultAccounts возвращает аккаунты, которые создаются при первом запуске.
func DefaultAccounts() []domain.Account {
	return []domain.Account{
		{ID: 1, Name: "Seller", Email: "seller@deal.com", Password: "1234", Role: domain.RoleSeller},
		{ID: 2, Name: "Buyer", Email: "buyer@deal.com", Password: "1234", Role: domain.RoleBuyer},
	}
}

// AccountOption настраивает AccountRepository.
type AccountOption func(*AccountRepository)

// WithDefaultAccounts включает создание DefaultAccounts, если файл аккаунтов отсутствует.
func WithDefaultAccounts(enabled bool) AccountOption {
	return func(r *AccountRepository) {
		r.seedDefaults = enabled
	}
}

// AccountRepository хранит аккаунты в памяти и переписывает файл при каждом изменении.
type AccountRepository struct {
	store        *Store
	codec        *Codec[domain.Account]
	mu           *sync.RWMutex
	logger       *log.Entry
	metrics      *metrics.StorageMetrics
	seedDefaults bool

	accounts []domain.Account
}

// NewAccountRepository создаёт репозиторий и загружает аккаунты из хранилища.
func NewAccountRepository(store *Store, options ...AccountOption) (*AccountRepository, error) {
	logger := store.collectionLogger(CollectionAccounts)
	r := &AccountRepository{
		store:   store,
		codec:   NewCodec(accountSchema, logger, store.metrics),
		mu:      store.lock(CollectionAccounts),
		logger:  logger,
		metrics: store.metrics,
	}
	for _, option := range options {
		option(r)
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload перечитывает аккаунты из файла, заменяя кэш.
func (r *AccountRepository) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.store.Path(CollectionAccounts)
	accounts, report, err := r.codec.Load(path)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	r.store.recordLoad(CollectionAccounts, report)

	if report.Missing && r.seedDefaults {
		accounts = DefaultAccounts()
		r.accounts = accounts
		if err := r.codec.Save(path, accounts); err != nil {
			return fmt.Errorf("seed default accounts: %w", err)
		}
		r.logger.WithField("count", len(accounts)).Info("seeded default accounts")
		return nil
	}

	r.accounts = accounts
	return nil
}

// Register добавляет аккаунт, если email ещё не занят (без учёта регистра).
// Пробелы вокруг email отбрасываются до проверки и записи.
// Пустая роль заменяется на buyer. При ошибке записи кэш не откатывается.
func (r *AccountRepository) Register(candidate domain.Account) (domain.Account, error) {
	candidate.Email = domain.NormalizeEmail(candidate.Email)
	if errs := candidate.Validate(); len(errs) > 0 {
		return domain.Account{}, fmt.Errorf("invalid account: %w", errors.Join(errs...))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.SameEmail(candidate.Email) {
			return domain.Account{}, domain.ErrEmailTaken
		}
	}

	candidate.ID = NextID(idsOf(r.accounts, accountID), DefaultIDSeed)
	if candidate.Role == "" {
		candidate.Role = domain.RoleBuyer
	}
	r.accounts = append(r.accounts, candidate)

	if err := r.codec.Save(r.store.Path(CollectionAccounts), r.accounts); err != nil {
		r.logger.WithError(err).WithField("account_id", candidate.ID).Error("failed to persist registered account")
		return domain.Account{}, fmt.Errorf("save accounts: %w", err)
	}

	r.logger.WithFields(log.Fields{
		"account_id": candidate.ID,
		"role":       candidate.Role,
	}).Info("account registered")
	return candidate, nil
}

// Authenticate возвращает первый аккаунт с совпавшим email (без учёта регистра и
// окружающих пробелов) и паролем.
func (r *AccountRepository) Authenticate(email, password string) (domain.Account, error) {
	email = domain.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.SameEmail(email) && a.Password == password {
			r.metrics.RecordAuthAttempt(true)
			return a, nil
		}
	}
	r.metrics.RecordAuthAttempt(false)
	return domain.Account{}, domain.ErrInvalidCredentials
}

// Get возвращает аккаунт или ErrAccountNotFound.
func (r *AccountRepository) Get(id int) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

// All возвращает копию кэша.
func (r *AccountRepository) All() []domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Account, len(r.accounts))
	copy(result, r.accounts)
	return result
}

func accountID(a domain.Account) int { return a.ID }

var _ domain.AccountRepository = (*AccountRepository)(nil)
