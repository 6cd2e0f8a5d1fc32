package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// setupLogger настраивает формат и уровень логирования. Логи идут в stderr, вывод команд в stdout.
func setupLogger(level log.Level) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
}

func main() {
	cfg, warnings := readConfig()

	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory with accounts, listings and orders files.")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	flag.Parse()

	setupLogger(cfg.Level())
	for _, w := range warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI(cfg, os.Stdin, os.Stdout, os.Stderr)
	status := c.execute(ctx, flag.Args(), true)
	stop()
	os.Exit(int(status))
}
