package domain

import "github.com/shopspring/decimal"

// Summary — сводные показатели площадки по разрешённым позициям заказов.
type Summary struct {
	Listings int
	Orders   int
	Units    int
	Revenue  decimal.Decimal
}

// Summarize считает сводку. sellerID > 0 ограничивает её объявлениями продавца:
// заказ учитывается, если в нём есть позиция продавца, а единицы и выручка
// считаются только по его позициям. Выпавшие позиции в сводку не попадают.
func Summarize(listings []Listing, orders []Order, sellerID int) Summary {
	summary := Summary{Revenue: decimal.Zero}

	for _, l := range listings {
		if sellerID <= 0 || l.SellerID == sellerID {
			summary.Listings++
		}
	}

	for _, o := range orders {
		counted := false
		for _, line := range o.Lines {
			if sellerID > 0 && line.Listing.SellerID != sellerID {
				continue
			}
			counted = true
			summary.Units += line.Quantity
			summary.Revenue = summary.Revenue.Add(line.Subtotal())
		}
		if counted || (sellerID <= 0 && len(o.Lines) == 0) {
			summary.Orders++
		}
	}

	return summary
}
