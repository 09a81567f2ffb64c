// Package stripe adapts the core's payment gateway port to Stripe
// checkout sessions. Everything here is external network I/O; callers
// never invoke it while holding inventory locks.
package stripe

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/refund"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/ports"
)

type Gateway struct {
	currency string
}

func NewGateway(apiKey, currency string) *Gateway {
	stripe.Key = apiKey

	return &Gateway{currency: currency}
}

var centsPerUnit = decimal.NewFromInt(100)

func (g *Gateway) CreateSession(ctx context.Context, amount decimal.Decimal, successURL, cancelURL string) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.currency),
					UnitAmount: stripe.Int64(amount.Mul(centsPerUnit).IntPart()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Room reservation"),
					},
				},
			},
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %v: %w", err, domain.ErrGateway)
	}

	return &ports.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// Refund resolves the session's payment intent and requests a full
// refund against it.
func (g *Gateway) Refund(ctx context.Context, sessionID string) error {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx

	sess, err := session.Get(sessionID, getParams)
	if err != nil {
		return fmt.Errorf("retrieve session %s: %v: %w", sessionID, err, domain.ErrGateway)
	}

	if sess.PaymentIntent == nil {
		return fmt.Errorf("session %s has no payment intent: %w", sessionID, domain.ErrGateway)
	}

	refundParams := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	refundParams.Context = ctx

	if _, err := refund.New(refundParams); err != nil {
		return fmt.Errorf("refund payment intent %s: %v: %w", sess.PaymentIntent.ID, err, domain.ErrGateway)
	}

	return nil
}
