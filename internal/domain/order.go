package domain

import "github.com/shopspring/decimal"

// OrderLine представляет одну позицию заказа.
type OrderLine struct {
	ListingID int
	// Quantity — количество единиц, строго больше нуля.
	Quantity int
	// Listing заполняется при чтении заказа и никогда не сохраняется.
	Listing Listing
}

// Subtotal возвращает цену позиции: price * quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Listing.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order агрегирует покупателя и позиции заказа.
// В файле хранятся только идентификаторы; Purchaser и OrderLine.Listing
// разрешаются репозиторием при каждом чтении.
type Order struct {
	ID        int
	AccountID int
	Purchaser Purchaser
	Lines     []OrderLine
}

// Total возвращает сумму заказа по разрешённым позициям.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Quantity возвращает суммарное количество единиц в заказе.
func (o Order) Quantity() int {
	var n int
	for _, line := range o.Lines {
		n += line.Quantity
	}
	return n
}

// ValidateInvariants проверяет базовые инварианты нового заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.AccountID <= 0 {
		errs = append(errs, ErrAccountRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.ListingID <= 0 {
			errs = append(errs, ErrListingRequired)
		}
	}

	return errs
}
