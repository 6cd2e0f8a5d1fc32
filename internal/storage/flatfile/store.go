package flatfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/metrics"
)

// Имена коллекций; совпадают с именами файлов без расширения.
const (
	CollectionAccounts = "accounts"
	CollectionListings = "listings"
	CollectionOrders   = "orders"
)

const fileExt = ".csv"

// StoreOptions задаёт параметры файлового хранилища.
type StoreOptions struct {
	Logger  *log.Entry
	Metrics *metrics.StorageMetrics
}

// StoreOption настраивает Store.
type StoreOption func(*StoreOptions)

// WithLogger задаёт logger для хранилища и его репозиториев.
func WithLogger(logger *log.Entry) StoreOption {
	return func(opts *StoreOptions) {
		opts.Logger = logger
	}
}

// WithMetrics задаёт метрики хранилища.
func WithMetrics(m *metrics.StorageMetrics) StoreOption {
	return func(opts *StoreOptions) {
		opts.Metrics = m
	}
}

// Store описывает каталог с плоскими файлами коллекций.
// Для каждой коллекции хранится один RWMutex: изменения держат его на весь цикл
// чтение-изменение-запись, чтения берут его на чтение. Между процессами
// блокировок нет, последний писатель побеждает.
type Store struct {
	dir     string
	logger  *log.Entry
	metrics *metrics.StorageMetrics

	mu      sync.Mutex
	locks   map[string]*sync.RWMutex
	reports map[string]LoadReport
}

// NewStore создаёт хранилище в каталоге dir, создавая каталог при необходимости.
func NewStore(dir string, options ...StoreOption) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data dir is required")
	}

	var opts StoreOptions
	for _, option := range options {
		option(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "flatfile")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %q: %w", dir, err)
	}

	return &Store{
		dir:     dir,
		logger:  logger.WithField("data_dir", dir),
		metrics: opts.Metrics,
		locks:   make(map[string]*sync.RWMutex),
		reports: make(map[string]LoadReport),
	}, nil
}

// Dir возвращает каталог хранилища.
func (s *Store) Dir() string {
	return s.dir
}

// Path возвращает путь к файлу коллекции.
func (s *Store) Path(collection string) string {
	return filepath.Join(s.dir, collection+fileExt)
}

// Ping проверяет, что каталог существует и доступен на запись.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %q is not a directory", s.dir)
	}

	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("data dir is not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// LastLoadReports возвращает отчёты последней загрузки по коллекциям.
func (s *Store) LastLoadReports() map[string]LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]LoadReport, len(s.reports))
	for k, v := range s.reports {
		result[k] = v
	}
	return result
}

// DegradedCollections возвращает коллекции, при последней загрузке которых были пропущены строки.
func (s *Store) DegradedCollections() []string {
	var names []string
	for name, report := range s.LastLoadReports() {
		if report.Skipped() > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *Store) lock(collection string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[collection]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *Store) recordLoad(collection string, report LoadReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[collection] = report
}

func (s *Store) collectionLogger(collection string) *log.Entry {
	return s.logger.WithField("collection", collection)
}
