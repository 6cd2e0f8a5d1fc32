package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины пропуска строк при загрузке коллекции.
const (
	ReasonFieldCount = "field_count"
	ReasonParse      = "parse"
	ReasonTooLong    = "too_long"
)

// StorageMetrics содержит метрики плоского файлового хранилища.
// Нулевой указатель допустим: все методы тогда ничего не делают.
type StorageMetrics struct {
	// Загрузка коллекций
	rowsLoaded  *prometheus.CounterVec
	rowsSkipped *prometheus.CounterVec

	// Запись коллекций
	saves        *prometheus.CounterVec
	saveDuration *prometheus.HistogramVec

	// Восстановление заказов
	linesDropped      prometheus.Counter
	unknownPurchasers prometheus.Counter

	authAttempts *prometheus.CounterVec
}

// NewStorageMetrics создаёт метрики в реестре по умолчанию.
func NewStorageMetrics() *StorageMetrics {
	return NewStorageMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStorageMetricsWithRegisterer создаёт метрики в указанном реестре.
func NewStorageMetricsWithRegisterer(registerer prometheus.Registerer) *StorageMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StorageMetrics{
		rowsLoaded: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "dealmate_storage_rows_loaded_total",
			Help: "Total number of records decoded from flat files",
		}, []string{"collection"}),
		rowsSkipped: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "dealmate_storage_rows_skipped_total",
			Help: "Total number of malformed records skipped while loading",
		}, []string{"collection", "reason"}),
		saves: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "dealmate_storage_saves_total",
			Help: "Total number of full collection writes grouped by result",
		}, []string{"collection", "result"}),
		saveDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "dealmate_storage_save_duration_seconds",
			Help:    "Duration of full collection writes in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"collection"}),
		linesDropped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "dealmate_order_lines_dropped_total",
			Help: "Total number of order lines dropped because the listing did not resolve",
		}),
		unknownPurchasers: registerCounter(registerer, prometheus.CounterOpts{
			Name: "dealmate_orders_unknown_account_total",
			Help: "Total number of reconstructed orders whose account did not resolve",
		}),
		authAttempts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "dealmate_auth_attempts_total",
			Help: "Total number of authentication attempts grouped by result",
		}, []string{"result"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordRowsLoaded увеличивает счётчик прочитанных записей коллекции.
func (m *StorageMetrics) RecordRowsLoaded(collection string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsLoaded.WithLabelValues(collection).Add(float64(n))
}

// RecordRowSkipped фиксирует пропуск повреждённой строки.
func (m *StorageMetrics) RecordRowSkipped(collection, reason string) {
	if m == nil {
		return
	}
	m.rowsSkipped.WithLabelValues(collection, reason).Inc()
}

// RecordSave фиксирует результат и длительность записи коллекции.
func (m *StorageMetrics) RecordSave(collection string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(collection, result).Inc()
	m.saveDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

// RecordLineDropped увеличивает счётчик позиций с неразрешённым объявлением.
func (m *StorageMetrics) RecordLineDropped() {
	if m == nil {
		return
	}
	m.linesDropped.Inc()
}

// RecordUnknownPurchaser увеличивает счётчик заказов с неизвестным покупателем.
func (m *StorageMetrics) RecordUnknownPurchaser() {
	if m == nil {
		return
	}
	m.unknownPurchasers.Inc()
}

// RecordAuthAttempt фиксирует попытку входа.
func (m *StorageMetrics) RecordAuthAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "ok"
	}
	m.authAttempts.WithLabelValues(result).Inc()
}
