package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckoutSession is the opaque handle returned by the payment
// provider: the id is what webhook events later reference, the URL is
// where the customer completes payment.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway is the external payment provider. Implementations
// perform network I/O and must never be called while inventory locks
// are held. Failures wrap domain.ErrGateway.
type PaymentGateway interface {
	CreateSession(ctx context.Context, amount decimal.Decimal, successURL, cancelURL string) (*CheckoutSession, error)

	// Refund resolves the session's payment reference and requests a
	// full refund.
	Refund(ctx context.Context, sessionID string) error
}
