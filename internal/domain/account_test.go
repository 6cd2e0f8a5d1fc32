package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoleKnown(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "buyer", role: RoleBuyer, want: true},
		{name: "seller", role: RoleSeller, want: true},
		{name: "custom", role: Role("admin"), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.role.Known(); got != tc.want {
				t.Fatalf("role %q known=%v, want %v", tc.role, got, tc.want)
			}
		})
	}
}

func TestAccountSameEmail(t *testing.T) {
	a := Account{Email: "Buyer@Deal.com"}
	if !a.SameEmail("buyer@deal.COM") {
		t.Fatal("expected case-insensitive email match")
	}
	if a.SameEmail("buyer@deal.org") {
		t.Fatal("unexpected email match")
	}
	if !a.SameEmail(" buyer@deal.com ") {
		t.Fatal("expected match ignoring surrounding spaces")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("\t Ann@Deal.com \n"); got != "Ann@Deal.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestAccountValidate(t *testing.T) {
	ok := Account{Name: "Ann", Email: "ann@deal.com", Password: "secret"}
	if errs := ok.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	bad := Account{Name: "Ann, Jr", Email: " ", Password: ""}
	errs := bad.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	if !errors.Is(errors.Join(errs...), ErrValueNotStorable) {
		t.Fatalf("expected ErrValueNotStorable among %v", errs)
	}
}

func TestUnknownPurchaser(t *testing.T) {
	p := UnknownPurchaser(42)
	if p.Known {
		t.Fatal("expected unknown purchaser")
	}
	if p.Account.ID != 42 || p.Account.Name != UnknownAccountName {
		t.Fatalf("unexpected purchaser %+v", p)
	}
}

func TestListingMatchesName(t *testing.T) {
	l := Listing{Name: "Pen Holder"}
	if !l.MatchesName("PEN") {
		t.Fatal("expected case-insensitive match")
	}
	if l.MatchesName("notebook") {
		t.Fatal("unexpected match")
	}
}

func TestListingValidate(t *testing.T) {
	ok := Listing{Name: "Pen", Price: decimal.RequireFromString("0")}
	if errs := ok.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	bad := Listing{Name: "a,b", Price: decimal.RequireFromString("-1")}
	if errs := bad.Validate(); len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}
