package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config описывает настройки хранилища и окружения запуска.
type Config struct {
	// DataDir — каталог с файлами коллекций.
	DataDir string `yaml:"data_dir"`
	// LogLevel — уровень логирования logrus (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// SeedAccounts создаёт аккаунты по умолчанию, если файла аккаунтов нет.
	SeedAccounts bool `yaml:"seed_accounts"`
	// EnforceListingOwner проверяет sellerId объявления по аккаунтам при добавлении.
	EnforceListingOwner bool `yaml:"enforce_listing_owner"`
	// MetricsAddr — адрес HTTP для /metrics и health checks в интерактивном режиме, пустой выключает сервер.
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		DataDir:             "data",
		LogLevel:            "info",
		SeedAccounts:        true,
		EnforceListingOwner: false,
		MetricsAddr:         "",
	}
}

// LoadConfigFile накладывает значения из YAML-файла на base.
// Ключи, которых нет в файле, сохраняют значения base. Неизвестный ключ даёт ошибку.
func LoadConfigFile(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("decode config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет обязательные поля конфигурации.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// Level возвращает уровень логирования, по умолчанию info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
