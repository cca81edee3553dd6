package payment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/fashionapp/resale-checkout/internal/order"
	"github.com/fashionapp/resale-checkout/internal/product"
	"github.com/fashionapp/resale-checkout/internal/user"
)

var (
	ErrGatewayDeclined = errors.New("payment declined by gateway")
	ErrAmountMismatch  = errors.New("gateway amount does not match order total")
	ErrOrderNotPaid    = errors.New("order is not paid")
)

// GatewayResult carries the verified fields of an inbound gateway
// notification. Callers must only construct it from VNPay.VerifyCallback.
type GatewayResult struct {
	AmountMinor  int64
	ResponseCode string
}

// Processor is the idempotent paid-transition: it records the Payment,
// flips the order to PAID, and splits the proceeds among sellers, all in
// one transaction.
type Processor struct {
	runner   db.Runner
	orders   order.Repository
	variants product.Repository
	users    user.Repository
	payments PaymentRepository
	payouts  PayoutRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewProcessor(
	runner db.Runner,
	orders order.Repository,
	variants product.Repository,
	users user.Repository,
	payments PaymentRepository,
	payouts PayoutRepository,
	log *zap.Logger,
) *Processor {
	return &Processor{
		runner:   runner,
		orders:   orders,
		variants: variants,
		users:    users,
		payments: payments,
		payouts:  payouts,
		log:      log,
		now:      time.Now,
	}
}

// ProcessPayment marks the order paid and records its Payment. gw must be
// non-nil for the VNPAY method and nil otherwise. Replaying the call for
// an already-paid order returns the existing Payment unchanged, which
// absorbs at-least-once webhook redelivery.
func (p *Processor) ProcessPayment(ctx context.Context, orderID int64, method string, gw *GatewayResult) (*Payment, error) {
	if method == order.MethodVNPay {
		if gw == nil {
			return nil, fmt.Errorf("order %d: gateway result required for %s", orderID, method)
		}
		if gw.ResponseCode != GatewayCodeSuccess {
			paymentsProcessed.WithLabelValues(method, "declined").Inc()
			return nil, p.markDeclined(ctx, orderID, gw.ResponseCode)
		}
	}

	var result *Payment
	err := p.runner.RunInTx(ctx, func(ctx context.Context) error {
		o, err := p.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if method == order.MethodVNPay {
			total, err := decimal.NewFromString(o.Total)
			if err != nil {
				return fmt.Errorf("order %d: bad total: %w", o.ID, err)
			}
			if total.Shift(2).Round(0).IntPart() != gw.AmountMinor {
				p.log.Error("security alert: gateway amount mismatch",
					zap.Int64("order_id", o.ID),
					zap.String("order_total", o.Total),
					zap.Int64("gateway_amount_minor", gw.AmountMinor),
				)
				return ErrAmountMismatch
			}
		}

		existing, err := p.payments.GetByOrderID(ctx, o.ID)
		if err != nil && !errors.Is(err, ErrPaymentNotFound) {
			return err
		}
		if o.Status == order.StatusPaid && existing != nil {
			// Duplicate delivery: a no-op, not an error.
			result = existing
			return nil
		}

		pay := &Payment{
			OrderID: o.ID,
			Amount:  o.Total,
			Method:  method,
			Status:  PaymentStatusSuccess,
			PaidAt:  p.now(),
		}
		if err := p.payments.Create(ctx, pay); err != nil {
			return err
		}
		if err := p.orders.UpdateStatus(ctx, o.ID, order.StatusPaid); err != nil {
			return err
		}
		o.Status = order.StatusPaid

		// Same transaction: a payout failure must not leave the order
		// marked paid with no payout trail.
		if _, err := p.splitLocked(ctx, o); err != nil {
			return err
		}
		result = pay
		return nil
	})
	if err != nil {
		paymentsProcessed.WithLabelValues(method, "failed").Inc()
		return nil, err
	}

	paymentsProcessed.WithLabelValues(method, "success").Inc()
	p.log.Info("payment recorded",
		zap.Int64("order_id", orderID),
		zap.Int64("payment_id", result.ID),
		zap.String("method", method),
	)
	return result, nil
}

// FinalizeWallet settles a wallet order whose balance debit already
// happened during placement. Satisfies order.WalletFinalizer.
func (p *Processor) FinalizeWallet(ctx context.Context, orderID int64) error {
	_, err := p.ProcessPayment(ctx, orderID, order.MethodWallet, nil)
	return err
}

// markDeclined records the failed attempt without creating a Payment.
// Runs in its own transaction so the status write survives the declined
// error. An order already in a paid or COD terminal state never regresses.
func (p *Processor) markDeclined(ctx context.Context, orderID int64, code string) error {
	err := p.runner.RunInTx(ctx, func(ctx context.Context) error {
		o, err := p.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status != order.StatusAwaitingPayment {
			return nil
		}
		return p.orders.UpdateStatus(ctx, o.ID, order.StatusFailedPayment)
	})
	if err != nil {
		return err
	}
	p.log.Warn("gateway declined payment",
		zap.Int64("order_id", orderID),
		zap.String("response_code", code),
	)
	return ErrGatewayDeclined
}

// CreatePayout splits a paid order's proceeds among its sellers. Normally
// this runs once, on the paid transition; re-invocation finds the existing
// payouts and returns them without crediting anyone twice.
func (p *Processor) CreatePayout(ctx context.Context, orderID int64) ([]Payout, error) {
	var out []Payout
	err := p.runner.RunInTx(ctx, func(ctx context.Context) error {
		o, err := p.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status != order.StatusPaid {
			return ErrOrderNotPaid
		}
		out, err = p.splitLocked(ctx, o)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// splitLocked does the actual split. Caller holds the order row lock.
func (p *Processor) splitLocked(ctx context.Context, o *order.Order) ([]Payout, error) {
	existing, err := p.payouts.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	items, err := p.orders.GetItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	subtotals := make(map[int64]decimal.Decimal)
	for _, it := range items {
		v, err := p.variants.GetVariant(ctx, it.VariantID)
		if err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("order item %d: bad price: %w", it.ID, err)
		}
		line := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotals[v.SellerID] = subtotals[v.SellerID].Add(line)
	}

	sellerIDs := make([]int64, 0, len(subtotals))
	for id := range subtotals {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i] < sellerIDs[j] })

	payouts := make([]Payout, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		amount := subtotals[sellerID]
		po := Payout{
			SellerID:  sellerID,
			OrderID:   o.ID,
			Amount:    amount.String(),
			Status:    PayoutStatusCompleted,
			ArrivalAt: p.now(),
		}
		if err := p.payouts.Create(ctx, &po); err != nil {
			return nil, err
		}
		if err := p.users.CreditBalance(ctx, sellerID, amount); err != nil {
			return nil, err
		}
		payoutsCreated.Inc()
		p.log.Info("payout credited",
			zap.Int64("order_id", o.ID),
			zap.Int64("seller_id", sellerID),
			zap.String("amount", po.Amount),
		)
		payouts = append(payouts, po)
	}
	return payouts, nil
}
