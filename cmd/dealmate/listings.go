package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/dealmate/internal/app"
	"github.com/vladislavdragonenkov/dealmate/internal/domain"
)

type listingsCmd struct {
	*cli
	seller int
}

func (*listingsCmd) Name() string     { return "listings" }
func (*listingsCmd) Synopsis() string { return "list listings, optionally of one seller" }
func (*listingsCmd) Usage() string {
	return `listings [-seller <account id>]
`
}

func (p *listingsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.seller, "seller", 0, "Show only listings of this seller.")
}

func (p *listingsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}

	listings := deps.Listings.All()
	if p.seller > 0 {
		listings = deps.Listings.ListBySeller(p.seller)
	}
	if err := writeListings(p.out, deps, listings); err != nil {
		return p.fail(err)
	}
	return subcommands.ExitSuccess
}

type addListingCmd struct {
	*cli
	name   string
	price  string
	seller int
}

func (*addListingCmd) Name() string     { return "add-listing" }
func (*addListingCmd) Synopsis() string { return "publish a listing" }
func (*addListingCmd) Usage() string {
	return `add-listing -name <name> -price <price> [-seller <account id>]

  The seller defaults to the current shell account.
`
}

func (p *addListingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Listing name.")
	f.StringVar(&p.price, "price", "", "Unit price, for example 12.50.")
	f.IntVar(&p.seller, "seller", 0, "Seller account id.")
}

func (p *addListingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	price, err := decimal.NewFromString(p.price)
	if err != nil {
		return p.usage(f, "invalid price %q", p.price)
	}
	sellerID := p.accountID(p.seller)
	if sellerID <= 0 {
		return p.usage(f, "seller is required: pass -seller or login first")
	}

	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}
	listing, err := deps.Listings.Add(domain.Listing{Name: p.name, Price: price, SellerID: sellerID})
	if err != nil {
		return p.fail(err)
	}

	fmt.Fprintf(p.out, "added listing %d: %s at %s\n", listing.ID, listing.Name, listing.Price.StringFixed(2))
	return subcommands.ExitSuccess
}

type removeListingCmd struct {
	*cli
	id int
}

func (*removeListingCmd) Name() string     { return "remove-listing" }
func (*removeListingCmd) Synopsis() string { return "remove a listing by id" }
func (*removeListingCmd) Usage() string {
	return `remove-listing -id <listing id>

  Orders that reference the listing keep their rows but no longer show the line.
`
}

func (p *removeListingCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.id, "id", 0, "Listing id.")
}

func (p *removeListingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id := p.id
	if id == 0 && f.NArg() == 1 {
		parsed, err := parseInt(f.Arg(0), func(v int) bool { return v > 0 }, "must be > 0")
		if err != nil {
			return p.usage(f, "invalid listing id %q: %v", f.Arg(0), err)
		}
		id = parsed
	}
	if id <= 0 {
		return p.usage(f, "listing id is required")
	}

	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}
	if err := deps.Listings.Remove(id); err != nil {
		return p.fail(err)
	}

	fmt.Fprintf(p.out, "removed listing %d\n", id)
	return subcommands.ExitSuccess
}

type searchCmd struct {
	*cli
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "find listings by name" }
func (*searchCmd) Usage() string {
	return `search <query>

  Case-insensitive substring match on the listing name.
`
}
func (*searchCmd) SetFlags(_ *flag.FlagSet) {}

func (p *searchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := joinArgs(f)
	if query == "" {
		return p.usage(f, "search query is required")
	}

	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}
	found := deps.Listings.Search(query)
	if len(found) == 0 {
		fmt.Fprintf(p.out, "no listings match %q\n", query)
		return subcommands.ExitSuccess
	}
	if err := writeListings(p.out, deps, found); err != nil {
		return p.fail(err)
	}
	return subcommands.ExitSuccess
}

func writeListings(out io.Writer, deps *app.Dependencies, listings []domain.Listing) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSELLER")
	for _, l := range listings {
		seller := domain.UnknownAccountName
		if a, err := deps.Accounts.Get(l.SellerID); err == nil {
			seller = a.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", l.ID, l.Name, l.Price.StringFixed(2), seller)
	}
	return w.Flush()
}
