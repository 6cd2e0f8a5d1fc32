package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"github.com/vladislavdragonenkov/dealmate/internal/domain"
)

// lineFlags собирает повторяющийся флаг -line в формате listingId[:quantity].
type lineFlags []domain.OrderLine

func (l *lineFlags) String() string {
	parts := make([]string, 0, len(*l))
	for _, line := range *l {
		parts = append(parts, fmt.Sprintf("%d:%d", line.ListingID, line.Quantity))
	}
	return strings.Join(parts, ",")
}

func (l *lineFlags) Set(value string) error {
	rawID, rawQty, hasQty := strings.Cut(value, ":")
	positive := func(v int) bool { return v > 0 }

	id, err := parseInt(rawID, positive, "listing id must be > 0")
	if err != nil {
		return fmt.Errorf("listing id %q: %w", rawID, err)
	}
	qty := 1
	if hasQty {
		qty, err = parseInt(rawQty, positive, "quantity must be > 0")
		if err != nil {
			return fmt.Errorf("quantity %q: %w", rawQty, err)
		}
	}

	*l = append(*l, domain.OrderLine{ListingID: id, Quantity: qty})
	return nil
}

type placeOrderCmd struct {
	*cli
	account int
	lines   lineFlags
}

func (*placeOrderCmd) Name() string     { return "place-order" }
func (*placeOrderCmd) Synopsis() string { return "place an order for one or more listings" }
func (*placeOrderCmd) Usage() string {
	return `place-order [-account <account id>] -line <listing id>[:<quantity>] [-line ...]

  The account defaults to the current shell account.
`
}

func (p *placeOrderCmd) SetFlags(f *flag.FlagSet) {
	p.lines = nil
	f.IntVar(&p.account, "account", 0, "Purchasing account id.")
	f.Var(&p.lines, "line", "Order line as listingId[:quantity]; repeatable.")
}

func (p *placeOrderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	accountID := p.accountID(p.account)
	if accountID <= 0 {
		return p.usage(f, "account is required: pass -account or login first")
	}
	if len(p.lines) == 0 {
		return p.usage(f, "at least one -line is required")
	}

	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}
	if _, err := deps.Accounts.Get(accountID); err != nil {
		return p.fail(fmt.Errorf("account %d: %w", accountID, err))
	}

	order, err := deps.Orders.SaveOrder(domain.Order{AccountID: accountID, Lines: p.lines})
	if err != nil {
		return p.fail(err)
	}

	writeOrder(p.out, order)
	return subcommands.ExitSuccess
}

type ordersCmd struct {
	*cli
	account int
	all     bool
}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "show stored orders" }
func (*ordersCmd) Usage() string {
	return `orders [-account <account id> | -all]

  Without flags shows the current shell account's orders, or all orders
  when nobody is logged in.
`
}

func (p *ordersCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.account, "account", 0, "Show orders of this account only.")
	f.BoolVar(&p.all, "all", false, "Show all orders.")
}

func (p *ordersCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}

	var orders []domain.Order
	if accountID := p.accountID(p.account); accountID > 0 && !p.all {
		orders, err = deps.Orders.ListByAccount(accountID)
	} else {
		orders, err = deps.Orders.All()
	}
	if err != nil {
		return p.fail(err)
	}

	if len(orders) == 0 {
		fmt.Fprintln(p.out, "no orders")
		return subcommands.ExitSuccess
	}
	for _, order := range orders {
		writeOrder(p.out, order)
	}
	return subcommands.ExitSuccess
}

func writeOrder(out io.Writer, order domain.Order) {
	fmt.Fprintf(out, "order %d by %s: %d items, total %s\n",
		order.ID, order.Purchaser.Account.Name, order.Quantity(), order.Total().StringFixed(2))
	for _, line := range order.Lines {
		fmt.Fprintf(out, "  %d x %s @ %s = %s\n",
			line.Quantity, line.Listing.Name, line.Listing.Price.StringFixed(2), line.Subtotal().StringFixed(2))
	}
}
