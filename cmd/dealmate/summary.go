package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/vladislavdragonenkov/dealmate/internal/domain"
)

type summaryCmd struct {
	*cli
	seller int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show listing, order and revenue totals" }
func (*summaryCmd) Usage() string {
	return `summary [-seller <account id>]

  Totals over resolved order lines. With -seller (or a logged-in seller in
  the shell) only that seller's listings and lines are counted.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.seller, "seller", 0, "Restrict totals to this seller.")
}

func (p *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}

	sellerID := p.seller
	if sellerID <= 0 && p.current != nil && p.current.Role == domain.RoleSeller {
		sellerID = p.current.ID
	}

	orders, err := deps.Orders.All()
	if err != nil {
		return p.fail(err)
	}
	summary := domain.Summarize(deps.Listings.All(), orders, sellerID)

	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	if sellerID > 0 {
		fmt.Fprintf(w, "seller\t%d\n", sellerID)
	}
	fmt.Fprintf(w, "listings\t%d\n", summary.Listings)
	fmt.Fprintf(w, "orders\t%d\n", summary.Orders)
	fmt.Fprintf(w, "units\t%d\n", summary.Units)
	fmt.Fprintf(w, "revenue\t%s\n", summary.Revenue.StringFixed(2))
	if err := w.Flush(); err != nil {
		return p.fail(err)
	}
	return subcommands.ExitSuccess
}
