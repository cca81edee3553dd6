package payment

import "time"

const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"

	PayoutStatusCompleted = "COMPLETED"
)

// Payment is the one-to-one settlement record of a paid order. Created
// exactly once and never mutated afterwards.
type Payment struct {
	ID      int64     `json:"id"`
	OrderID int64     `json:"order_id"`
	Amount  string    `json:"amount"` // NUMERIC -> string
	Method  string    `json:"method"`
	Status  string    `json:"status"`
	PaidAt  time.Time `json:"paid_at"`
}

// Payout is one seller's credited share of one order's total. Append-only.
type Payout struct {
	ID        int64     `json:"id"`
	SellerID  int64     `json:"seller_id"`
	OrderID   int64     `json:"order_id"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	ArrivalAt time.Time `json:"arrival_at"`
}
