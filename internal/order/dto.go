package order

import "time"

// CreateOrderItem is one cart line.
type CreateOrderItem struct {
	VariantID int64 `json:"variant_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the checkout payload. Shipping comes either from a
// saved address (AddressID) or from the one-time fields below it.
type CreateOrderRequest struct {
	BuyerID       int64             `json:"buyer_id" validate:"required,gt=0"`
	Items         []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=COD VNPAY WALLET"`

	AddressID *int64 `json:"address_id,omitempty"`

	ReceiverName  string `json:"receiver_name,omitempty"`
	ReceiverPhone string `json:"receiver_phone,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
}

type OrderResponse struct {
	OrderID       int64     `json:"order_id"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	Total         string    `json:"total"`
	ReceiverName  string    `json:"receiver_name,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ItemSummaries []string  `json:"item_summaries,omitempty"`
	Items         []ItemDetail `json:"items,omitempty"`
	// Set for VNPAY orders: the signed gateway redirect.
	PaymentURL string `json:"payment_url,omitempty"`
}

type ItemDetail struct {
	ProductName string `json:"product_name"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}
