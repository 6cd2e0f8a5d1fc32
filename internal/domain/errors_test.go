package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "account", err: ErrAccountNotFound, want: true},
		{name: "listing", err: ErrListingNotFound, want: true},
		{name: "wrapped order", err: fmt.Errorf("get order 7: %w", ErrOrderNotFound), want: true},
		{name: "rejected", err: ErrEmailTaken, want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "email taken", err: ErrEmailTaken, want: true},
		{name: "invalid credentials", err: ErrInvalidCredentials, want: true},
		{name: "joined seller check", err: errors.Join(ErrSellerNotFound, errors.New("extra context")), want: true},
		{name: "storage error", err: errors.New("disk full"), want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRejected(tt.err); got != tt.want {
				t.Errorf("IsRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "joined account errors", err: fmt.Errorf("invalid account: %w", errors.Join(ErrNameRequired, ErrEmailRequired)), want: true},
		{name: "negative price", err: ErrPriceNegative, want: true},
		{name: "order lines", err: ErrLinesRequired, want: true},
		{name: "not found", err: ErrListingNotFound, want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalid(tt.err); got != tt.want {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.want)
			}
		})
	}
}
