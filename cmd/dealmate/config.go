package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/dealmate/internal/app"
)

const (
	envConfigFile          = "DEALMATE_CONFIG"
	envDataDir             = "DEALMATE_DATA_DIR"
	envLogLevel            = "DEALMATE_LOG_LEVEL"
	envSeedAccounts        = "DEALMATE_SEED_ACCOUNTS"
	envEnforceListingOwner = "DEALMATE_ENFORCE_LISTING_OWNER"
	envMetricsAddr         = "DEALMATE_METRICS_ADDR"
)

type envLookup func(string) (string, bool)

// readConfig формирует конфигурацию: значения по умолчанию, затем YAML-файл, затем переменные окружения.
func readConfig() (app.Config, []string) {
	return readConfigFromEnv(os.LookupEnv)
}

func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if path, ok := nonEmpty(lookup, envConfigFile); ok {
		fromFile, err := app.LoadConfigFile(path, cfg)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, using defaults", envConfigFile, err))
		} else {
			cfg = fromFile
		}
	}

	if v, ok := nonEmpty(lookup, envDataDir); ok {
		cfg.DataDir = v
	}
	if v, ok := nonEmpty(lookup, envLogLevel); ok {
		level := strings.ToLower(v)
		candidate := cfg
		candidate.LogLevel = level
		if err := candidate.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q: %v", envLogLevel, v, err))
		} else {
			cfg.LogLevel = level
		}
	}
	if v, ok := nonEmpty(lookup, envSeedAccounts); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q: %v", envSeedAccounts, v, err))
		} else {
			cfg.SeedAccounts = parsed
		}
	}
	if v, ok := nonEmpty(lookup, envEnforceListingOwner); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q: %v", envEnforceListingOwner, v, err))
		} else {
			cfg.EnforceListingOwner = parsed
		}
	}
	if v, ok := nonEmpty(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}

	return cfg, warnings
}

func nonEmpty(lookup envLookup, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, errors.New("expected boolean value")
	}
}

func parseInt(raw string, valid func(int) bool, constraint string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if valid != nil && !valid(value) {
		return 0, errors.New(constraint)
	}
	return value, nil
}
