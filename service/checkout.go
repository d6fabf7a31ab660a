package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"repair-shop-quotes/models"
)

// Checkout is the payment collaborator. A nil result with a nil error means
// the operator cancelled.
type Checkout interface {
	Open(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error)
}

// SubmittedCheckout replays a result the operator already completed in the checkout modal
type SubmittedCheckout struct {
	Result *models.CheckoutResult
}

func (c SubmittedCheckout) Open(ctx context.Context, _ models.CheckoutRequest) (*models.CheckoutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Result, nil
}

// NewSale builds the sale record of a completed checkout
func NewSale(q models.Quote, amountDue decimal.Decimal, res models.CheckoutResult, now time.Time) models.Sale {
	paid := res.AmountPaid.Round(2)
	balance := amountDue.Sub(paid).Round(2)
	status := models.SaleStatusPaid
	if balance.IsPositive() {
		status = models.SaleStatusPartial
	} else {
		balance = decimal.Zero
	}

	stamp := now.UTC().Format(time.RFC3339)
	return models.Sale{
		QuoteID:      q.ID,
		SoldAt:       stamp,
		CustomerName: q.CustomerName,
		AmountDue:    amountDue,
		AmountPaid:   paid,
		Balance:      balance,
		PaymentType:  res.PaymentType,
		Status:       status,
		Closed:       res.MarkClosed,
		PrintReceipt: res.PrintReceipt,
		CreatedAt:    stamp,
	}
}
