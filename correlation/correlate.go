// Package correlation joins live checkout data with ledger aggregates.
package correlation

import (
	"strings"

	"cart-recovery-service/models"
)

// Correlate enriches each checkout with the send count and last-sent
// timestamp of the aggregate whose (customerID, checkoutID) pair matches
// it. Checkouts without a matching aggregate get SentCount 0 and no
// LastSentAt. Pure function: input order is preserved and every input
// checkout produces exactly one output.
//
// Join key comparison is string-normalized so ids from the commerce
// platform and ids stored in the ledger match regardless of incidental
// whitespace. Linear scan; candidate lists are tens to low hundreds.
func Correlate(checkouts []models.Checkout, aggregates []models.SendAggregate) []models.CorrelatedCheckout {
	out := make([]models.CorrelatedCheckout, 0, len(checkouts))
	for _, checkout := range checkouts {
		enriched := models.CorrelatedCheckout{Checkout: checkout}
		for _, agg := range aggregates {
			if idsEqual(checkout.Customer.ID, agg.CustomerID) && idsEqual(checkout.ID, agg.CheckoutID) {
				enriched.SentCount = agg.Count
				lastSent := agg.LastSentAt
				enriched.LastSentAt = &lastSent
				break
			}
		}
		out = append(out, enriched)
	}
	return out
}

func idsEqual(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
