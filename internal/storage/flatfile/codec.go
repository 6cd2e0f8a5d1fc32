package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/metrics"
)

// Delimiter разделяет поля записи. Экранирования нет: значение с запятой
// ломает разбор строки.
const Delimiter = ","

const maxLineSize = 1 << 20

// Schema описывает раскладку одной коллекции: заголовок и порядок полей.
type Schema[T any] struct {
	Collection string
	Header     []string
	Encode     func(T) []string
	// Decode получает ровно len(Header) полей.
	Decode func(fields []string) (T, error)
}

// LoadReport описывает результат чтения файла коллекции.
type LoadReport struct {
	// Missing — файл отсутствует; коллекция пуста, это не ошибка.
	Missing           bool
	Loaded            int
	SkippedFieldCount int
	SkippedParse      int
	SkippedTooLong    int
}

// Skipped возвращает общее число пропущенных строк.
func (r LoadReport) Skipped() int {
	return r.SkippedFieldCount + r.SkippedParse + r.SkippedTooLong
}

// Codec читает и пишет коллекцию целиком в плоском табличном формате.
type Codec[T any] struct {
	schema  Schema[T]
	logger  *log.Entry
	metrics *metrics.StorageMetrics
}

// NewCodec создаёт кодек для схемы.
func NewCodec[T any](schema Schema[T], logger *log.Entry, m *metrics.StorageMetrics) *Codec[T] {
	if logger == nil {
		logger = log.WithField("component", "flatfile-codec")
	}
	return &Codec[T]{
		schema:  schema,
		logger:  logger.WithField("collection", schema.Collection),
		metrics: m,
	}
}

// Load читает все записи из path. Отсутствующий файл даёт пустую коллекцию.
func (c *Codec[T]) Load(path string) ([]T, LoadReport, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, LoadReport{Missing: true}, nil
	}
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	records, report, err := c.Read(f)
	if err != nil {
		return nil, report, fmt.Errorf("read %q: %w", path, err)
	}
	return records, report, nil
}

// Read разбирает поток: первая строка — заголовок, далее по записи на строку.
// Строки с неверным числом полей, неразбираемыми значениями или длиннее
// maxLineSize пропускаются.
func (c *Codec[T]) Read(r io.Reader) ([]T, LoadReport, error) {
	br := bufio.NewReader(r)

	var report LoadReport
	records := make([]T, 0)
	lineNo := 0

	for {
		line, tooLong, err := readLine(br, maxLineSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, err
		}
		lineNo++

		if lineNo == 1 {
			if tooLong || line != strings.Join(c.schema.Header, Delimiter) {
				c.logger.WithField("header", truncate(line, 80)).Warn("unexpected header, reading rows anyway")
			}
			continue
		}
		if tooLong {
			report.SkippedTooLong++
			c.skip(lineNo, metrics.ReasonTooLong, fmt.Errorf("row exceeds %d bytes", maxLineSize))
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, Delimiter)
		if len(fields) != len(c.schema.Header) {
			report.SkippedFieldCount++
			c.skip(lineNo, metrics.ReasonFieldCount, fmt.Errorf("expected %d fields, got %d", len(c.schema.Header), len(fields)))
			continue
		}

		record, err := c.schema.Decode(fields)
		if err != nil {
			report.SkippedParse++
			c.skip(lineNo, metrics.ReasonParse, err)
			continue
		}
		records = append(records, record)
	}

	report.Loaded = len(records)
	c.metrics.RecordRowsLoaded(c.schema.Collection, report.Loaded)
	if report.Skipped() > 0 {
		c.logger.WithFields(log.Fields{
			"loaded":  report.Loaded,
			"skipped": report.Skipped(),
		}).Warn("malformed rows skipped while loading")
	}

	return records, report, nil
}

func (c *Codec[T]) skip(lineNo int, reason string, err error) {
	c.metrics.RecordRowSkipped(c.schema.Collection, reason)
	c.logger.WithFields(log.Fields{
		"line":   lineNo,
		"reason": reason,
	}).WithError(err).Debug("row skipped")
}

// Save перезаписывает path заголовком и всеми записями.
// Запись не атомарна: сбой посреди записи может испортить файл.
func (c *Codec[T]) Save(path string, records []T) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordSave(c.schema.Collection, time.Since(start), err)
	}()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}

	if err := c.Write(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}

// Write сериализует заголовок и записи в w.
func (c *Codec[T]) Write(w io.Writer, records []T) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(c.schema.Header, Delimiter) + "\n"); err != nil {
		return err
	}
	for _, record := range records {
		if _, err := bw.WriteString(strings.Join(c.schema.Encode(record), Delimiter) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// readLine возвращает строку без завершающих \r\n. Строка длиннее limit
// дочитывается до перевода строки и отбрасывается, tooLong = true.
// io.EOF возвращается только когда данных больше нет.
func readLine(br *bufio.Reader, limit int) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(bytes.TrimRight(buf, "\r\n")) > limit {
				tooLong = true
				buf = nil
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(buf) == 0 && !tooLong {
				return "", false, io.EOF
			}
			return string(bytes.TrimRight(buf, "\r\n")), tooLong, nil
		case err != nil:
			return "", false, err
		default:
			return string(bytes.TrimRight(buf, "\r\n")), tooLong, nil
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
