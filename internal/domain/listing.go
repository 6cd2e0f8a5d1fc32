package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Listing — объявление о продаже товара.
type Listing struct {
	ID    int
	Name  string
	Price decimal.Decimal
	// SellerID ссылается на аккаунт-владельца. По умолчанию не проверяется.
	SellerID int
}

// MatchesName проверяет вхождение подстроки в название без учёта регистра.
func (l Listing) MatchesName(query string) bool {
	return strings.Contains(strings.ToLower(l.Name), strings.ToLower(query))
}

// Validate проверяет поля объявления перед добавлением.
func (l Listing) Validate() []error {
	var errs []error

	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if !Storable(l.Name) {
		errs = append(errs, ErrValueNotStorable)
	}
	if l.Price.IsNegative() {
		errs = append(errs, ErrPriceNegative)
	}

	return errs
}
