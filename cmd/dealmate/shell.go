package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/app"
)

type shellCmd struct {
	*cli
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive session over the same commands" }
func (*shellCmd) Usage() string {
	return `shell

  Reads commands line by line. Besides the regular commands it understands
  whoami, logout and exit. When DEALMATE_METRICS_ADDR is set, /metrics and
  health endpoints are served while the shell runs.
`
}
func (*shellCmd) SetFlags(_ *flag.FlagSet) {}

func (p *shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := p.logger.WithField("session_id", uuid.NewString())

	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if addr := p.cfg.MetricsAddr; addr != "" {
		srv := app.StartMetricsServer(ctx, addr, deps, p.registry)
		defer app.ShutdownHTTP(srv, logger)
	}

	logger.WithField("data_dir", p.cfg.DataDir).Info("сессия начата")
	defer logger.Info("сессия завершена")

	lines, readErr := readLines(ctx, p.in)
	p.prompt()
	for {
		var text string
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out)
			logger.Info("сессия прервана сигналом")
			return subcommands.ExitSuccess
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return p.fail(fmt.Errorf("read input: %w", err))
				}
				return subcommands.ExitSuccess
			}
			text = line
		}

		args := strings.Fields(text)
		switch {
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			return subcommands.ExitSuccess
		case args[0] == "logout":
			p.current = nil
			fmt.Fprintln(p.out, "logged out")
		case args[0] == "whoami":
			if p.current == nil {
				fmt.Fprintln(p.out, "not logged in")
			} else {
				fmt.Fprintf(p.out, "%s <%s> (%s), account %d\n", p.current.Name, p.current.Email, p.current.Role, p.current.ID)
			}
		default:
			if status := p.execute(ctx, args, false); status != subcommands.ExitSuccess {
				logger.WithFields(log.Fields{"command": args[0], "status": int(status)}).Debug("команда не выполнена")
			}
		}
		p.prompt()
	}
}

// readLines читает строки в отдельной горутине, чтобы цикл сессии мог выйти по ctx,
// пока чтение заблокировано. readErr получает значение до закрытия lines.
// Заблокированное чтение из in переживает выход по ctx и завершается вместе с процессом.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}

func (p *shellCmd) prompt() {
	if p.current != nil {
		fmt.Fprintf(p.out, "%s(%s)> ", programName, p.current.Name)
		return
	}
	fmt.Fprintf(p.out, "%s> ", programName)
}
