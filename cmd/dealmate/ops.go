package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/prometheus/common/expfmt"

	"github.com/vladislavdragonenkov/dealmate/internal/health"
	"github.com/vladislavdragonenkov/dealmate/internal/version"
)

type healthCmd struct {
	*cli
}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "check the data directory and last loads" }
func (*healthCmd) Usage() string {
	return `health

  Prints the health report as JSON. Exits non-zero when storage is unhealthy;
  skipped malformed rows report degraded.
`
}
func (*healthCmd) SetFlags(_ *flag.FlagSet) {}

func (p *healthCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}

	report := deps.Health.Report()
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return p.fail(err)
	}
	if report.Status == health.StatusUnhealthy {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type metricsCmd struct {
	*cli
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "print storage metrics in Prometheus text format" }
func (*metricsCmd) Usage() string {
	return `metrics

  Loads the collections and prints the metrics gathered so far.
`
}
func (*metricsCmd) SetFlags(_ *flag.FlagSet) {}

func (p *metricsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := p.dependencies(); err != nil {
		return p.fail(err)
	}

	families, err := p.registry.Gather()
	if err != nil {
		return p.fail(fmt.Errorf("gather metrics: %w", err))
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(p.out, mf); err != nil {
			return p.fail(fmt.Errorf("encode metrics: %w", err))
		}
	}
	return subcommands.ExitSuccess
}

type versionCmd struct {
	*cli
}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print build information" }
func (*versionCmd) Usage() string            { return "version\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}

func (p *versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Fprintln(p.out, version.String())
	return subcommands.ExitSuccess
}
