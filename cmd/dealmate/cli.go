package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/app"
	"github.com/vladislavdragonenkov/dealmate/internal/domain"
)

const programName = "dealmate"

// cli хранит состояние одного запуска: конфигурацию, открытое хранилище и текущий аккаунт.
type cli struct {
	cfg      app.Config
	registry *prometheus.Registry
	logger   *log.Entry
	in       io.Reader
	out      io.Writer
	errOut   io.Writer

	deps    *app.Dependencies
	current *domain.Account
}

func newCLI(cfg app.Config, in io.Reader, out, errOut io.Writer) *cli {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &cli{
		cfg:      cfg,
		registry: registry,
		logger:   log.WithField("component", "cli"),
		in:       in,
		out:      out,
		errOut:   errOut,
	}
}

// dependencies открывает хранилище при первом обращении.
func (c *cli) dependencies() (*app.Dependencies, error) {
	if c.deps != nil {
		return c.deps, nil
	}
	deps, err := app.NewDependencies(c.cfg, c.logger, c.registry)
	if err != nil {
		return nil, err
	}
	c.deps = deps
	return deps, nil
}

// execute разбирает args как одну команду и выполняет её.
func (c *cli) execute(ctx context.Context, args []string, withShell bool) subcommands.ExitStatus {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}

	commander := subcommands.NewCommander(fs, programName)
	commander.Output = c.out
	commander.Error = c.errOut
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, cmd := range c.commands(withShell) {
		commander.Register(cmd.command, cmd.group)
	}
	return commander.Execute(ctx)
}

type groupedCommand struct {
	command subcommands.Command
	group   string
}

func (c *cli) commands(withShell bool) []groupedCommand {
	cmds := []groupedCommand{
		{&registerCmd{cli: c}, "accounts"},
		{&loginCmd{cli: c}, "accounts"},
		{&accountsCmd{cli: c}, "accounts"},
		{&listingsCmd{cli: c}, "listings"},
		{&addListingCmd{cli: c}, "listings"},
		{&removeListingCmd{cli: c}, "listings"},
		{&searchCmd{cli: c}, "listings"},
		{&placeOrderCmd{cli: c}, "orders"},
		{&ordersCmd{cli: c}, "orders"},
		{&summaryCmd{cli: c}, "orders"},
		{&healthCmd{cli: c}, "ops"},
		{&metricsCmd{cli: c}, "ops"},
		{&versionCmd{cli: c}, "ops"},
	}
	if withShell {
		cmds = append(cmds, groupedCommand{&shellCmd{cli: c}, ""})
	}
	return cmds
}

// fail печатает ошибку пользователю. Ошибки хранилища дополнительно пишутся в лог.
func (c *cli) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(c.errOut, "error:", err)
	if !domain.IsRejected(err) && !domain.IsNotFound(err) && !domain.IsInvalid(err) {
		c.logger.WithError(err).Error("команда завершилась с ошибкой")
	}
	return subcommands.ExitFailure
}

func (c *cli) usage(f *flag.FlagSet, format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(c.errOut, format+"\n", args...)
	f.SetOutput(c.errOut)
	f.PrintDefaults()
	return subcommands.ExitUsageError
}

// accountID возвращает явно заданный id или id текущего аккаунта сессии.
func (c *cli) accountID(explicit int) int {
	if explicit > 0 {
		return explicit
	}
	if c.current != nil {
		return c.current.ID
	}
	return 0
}

func joinArgs(f *flag.FlagSet) string {
	return strings.TrimSpace(strings.Join(f.Args(), " "))
}
