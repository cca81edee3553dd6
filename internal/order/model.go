package order

import "time"

// Order status values. PAID, PLACED_COD and FAILED_PAYMENT are terminal
// for the payment flow; an order never regresses out of PAID.
const (
	StatusAwaitingPayment = "AWAITING_PAYMENT"
	StatusPlacedCOD       = "PLACED_COD"
	StatusPaid            = "PAID"
	StatusFailedPayment   = "FAILED_PAYMENT"
)

// Payment methods accepted at checkout.
const (
	MethodCOD    = "COD"
	MethodVNPay  = "VNPAY"
	MethodWallet = "WALLET"
)

type Order struct {
	ID            int64     `json:"id"`
	BuyerID       int64     `json:"buyer_id"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	Total         string    `json:"total"` // NUMERIC -> string
	CreatedAt     time.Time `json:"created_at"`
}

// Item captures the unit price at purchase time; later catalog price
// changes never alter it.
type Item struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// Shipping is the denormalized snapshot of the receiver taken at order
// creation. Edits to a saved address never reach historical orders.
type Shipping struct {
	ID             int64  `json:"id"`
	OrderID        int64  `json:"order_id"`
	ReceiverName   string `json:"receiver_name"`
	ReceiverPhone  string `json:"receiver_phone"`
	Address        string `json:"address"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	Status         string `json:"status"`
}

const ShippingStatusPending = "PENDING"
