package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/vladislavdragonenkov/dealmate/internal/domain"
)

type registerCmd struct {
	*cli
	name     string
	email    string
	password string
	role     string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "register a new account" }
func (*registerCmd) Usage() string {
	return `register -name <name> -email <email> -password <password> [-role buyer|seller]

  Creates an account. Emails are unique regardless of case.
`
}

func (p *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Display name.")
	f.StringVar(&p.email, "email", "", "Login email.")
	f.StringVar(&p.password, "password", "", "Password.")
	f.StringVar(&p.role, "role", string(domain.RoleBuyer), "Account role (buyer, seller).")
}

func (p *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	role := domain.Role(p.role)
	if !role.Known() {
		return p.usage(f, "unknown role %q", p.role)
	}

	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}
	account, err := deps.Accounts.Register(domain.Account{
		Name:     p.name,
		Email:    p.email,
		Password: p.password,
		Role:     role,
	})
	if err != nil {
		return p.fail(err)
	}

	fmt.Fprintf(p.out, "registered account %d: %s <%s> (%s)\n", account.ID, account.Name, account.Email, account.Role)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	*cli
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "check credentials and start a session" }
func (*loginCmd) Usage() string {
	return `login -email <email> -password <password>

  Verifies credentials. In the shell the account becomes the current one
  for place-order, orders and add-listing.
`
}

func (p *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.email, "email", "", "Login email.")
	f.StringVar(&p.password, "password", "", "Password.")
}

func (p *loginCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}
	account, err := deps.Accounts.Authenticate(p.email, p.password)
	if err != nil {
		return p.fail(err)
	}

	p.current = &account
	fmt.Fprintf(p.out, "logged in as %s (%s), account %d\n", account.Name, account.Role, account.ID)
	return subcommands.ExitSuccess
}

type accountsCmd struct {
	*cli
}

func (*accountsCmd) Name() string             { return "accounts" }
func (*accountsCmd) Synopsis() string         { return "list registered accounts" }
func (*accountsCmd) Usage() string            { return "accounts\n" }
func (*accountsCmd) SetFlags(_ *flag.FlagSet) {}

func (p *accountsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deps, err := p.dependencies()
	if err != nil {
		return p.fail(err)
	}

	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, a := range deps.Accounts.All() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Email, a.Role)
	}
	if err := w.Flush(); err != nil {
		return p.fail(err)
	}
	return subcommands.ExitSuccess
}
