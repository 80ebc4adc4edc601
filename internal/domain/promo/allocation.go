package promo

import "github.com/shopspring/decimal"

// ticketPriceStep is the price increment that earns one more ticket in a
// cross-sell allocation.
var ticketPriceStep = decimal.NewFromInt(10)

// AllocatedTickets returns the advisory ticket-unit entitlement for a product
// priced at the given unit price. The ticket product never allocates against
// itself; every other product grants at least one unit, scaling with price in
// $10 increments: max(1, floor(price/10)).
func AllocatedTickets(price decimal.Decimal, isTicketProduct bool) int {
	if isTicketProduct {
		return 0
	}
	n := price.Div(ticketPriceStep).Floor().IntPart()
	if n < 1 {
		n = 1
	}
	return int(n)
}
