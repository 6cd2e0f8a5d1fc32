package flatfile

import (
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/dealmate/internal/metrics"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	return logger.WithField("component", "test")
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(),
		WithLogger(loggerForTests()),
		WithMetrics(metrics.NewStorageMetricsWithRegisterer(prometheus.NewRegistry())),
	)
	require.NoError(t, err)
	return store
}

// writeCollection записывает файл коллекции построчно, минуя репозитории.
func writeCollection(t *testing.T, store *Store, collection string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(store.Path(collection), []byte(content), 0o644))
}

func readCollection(t *testing.T, store *Store, collection string) []string {
	t.Helper()
	data, err := os.ReadFile(store.Path(collection))
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// breakCollection подменяет файл коллекции каталогом, чтобы запись завершилась ошибкой.
func breakCollection(t *testing.T, store *Store, collection string) {
	t.Helper()
	path := store.Path(collection)
	require.NoError(t, os.RemoveAll(path))
	require.NoError(t, os.Mkdir(path, 0o755))
}
