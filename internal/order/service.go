package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fashionapp/resale-checkout/internal/address"
	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/fashionapp/resale-checkout/internal/product"
	"github.com/fashionapp/resale-checkout/internal/user"
)

var (
	ErrMissingShippingInfo = errors.New("shipping address details are required")
	ErrUnauthorizedAddress = errors.New("address invalid or unauthorized")
	ErrForbidden           = errors.New("no permission to view this order")
)

// PaymentURLBuilder produces the signed gateway redirect for an order.
// Implemented by the payment package; pure computation, no network call.
type PaymentURLBuilder interface {
	CreatePaymentURL(o *Order, clientIP string) (string, error)
}

// WalletFinalizer converts a wallet order from AWAITING_PAYMENT to PAID.
// Invoked inside the placement transaction, after the wallet debit.
type WalletFinalizer interface {
	FinalizeWallet(ctx context.Context, orderID int64) error
}

type Service struct {
	runner    db.Runner
	orders    Repository
	variants  product.Repository
	users     user.Repository
	addresses address.Repository
	gateway   PaymentURLBuilder
	wallet    WalletFinalizer
	validate  *validator.Validate
	log       *zap.Logger
}

func NewService(
	runner db.Runner,
	orders Repository,
	variants product.Repository,
	users user.Repository,
	addresses address.Repository,
	gateway PaymentURLBuilder,
	wallet WalletFinalizer,
	log *zap.Logger,
) *Service {
	return &Service{
		runner:    runner,
		orders:    orders,
		variants:  variants,
		users:     users,
		addresses: addresses,
		gateway:   gateway,
		wallet:    wallet,
		validate:  validator.New(),
		log:       log,
	}
}

// PlaceOrder turns a cart into a durable order: reserves stock line by
// line, captures unit prices, takes the wallet debit when applicable,
// persists the order with its shipping snapshot, and kicks off the
// method-specific payment step. Everything runs in one transaction; any
// failure rolls back all of it, including the stock decrements.
func (s *Service) PlaceOrder(ctx context.Context, req *CreateOrderRequest, clientIP string) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var resp *OrderResponse
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		o := &Order{
			BuyerID:       req.BuyerID,
			PaymentMethod: req.PaymentMethod,
		}

		total := decimal.Zero
		items := make([]Item, 0, len(req.Items))
		summaries := make([]string, 0, len(req.Items))

		for _, line := range req.Items {
			v, err := s.variants.GetVariant(ctx, line.VariantID)
			if err != nil {
				return err
			}
			if err := s.variants.ReserveStock(ctx, line.VariantID, line.Quantity); err != nil {
				return err
			}
			price, err := decimal.NewFromString(v.BasePrice)
			if err != nil {
				return fmt.Errorf("variant %d: bad base price: %w", v.VariantID, err)
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, Item{
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
				Price:     price.String(),
			})
			summaries = append(summaries, fmt.Sprintf("%dx %s", line.Quantity, v.ProductName))
		}
		o.Total = total.String()

		switch req.PaymentMethod {
		case MethodCOD:
			o.Status = StatusPlacedCOD
		case MethodVNPay:
			o.Status = StatusAwaitingPayment
		case MethodWallet:
			if err := s.users.DebitBalance(ctx, req.BuyerID, total); err != nil {
				return err
			}
			o.Status = StatusAwaitingPayment
		}

		if err := s.orders.Create(ctx, o, items); err != nil {
			return err
		}

		ship, err := s.buildShippingSnapshot(ctx, req, o.ID)
		if err != nil {
			return err
		}
		if err := s.orders.CreateShipping(ctx, ship); err != nil {
			return err
		}

		resp = &OrderResponse{
			OrderID:       o.ID,
			Status:        o.Status,
			PaymentMethod: o.PaymentMethod,
			Total:         o.Total,
			ReceiverName:  ship.ReceiverName,
			Address:       ship.Address,
			CreatedAt:     o.CreatedAt,
			ItemSummaries: summaries,
		}

		switch req.PaymentMethod {
		case MethodVNPay:
			url, err := s.gateway.CreatePaymentURL(o, clientIP)
			if err != nil {
				return err
			}
			resp.PaymentURL = url
		case MethodWallet:
			// The debit already happened above; this flips the order to
			// PAID and triggers the payout split in the same transaction.
			if err := s.wallet.FinalizeWallet(ctx, o.ID); err != nil {
				return err
			}
			resp.Status = StatusPaid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.Int64("order_id", resp.OrderID),
		zap.Int64("buyer_id", req.BuyerID),
		zap.String("method", req.PaymentMethod),
		zap.String("total", resp.Total),
	)
	return resp, nil
}

func (s *Service) buildShippingSnapshot(ctx context.Context, req *CreateOrderRequest, orderID int64) (*Shipping, error) {
	ship := &Shipping{OrderID: orderID, Status: ShippingStatusPending}

	if req.AddressID != nil {
		a, err := s.addresses.GetByID(ctx, *req.AddressID)
		if err != nil {
			if errors.Is(err, address.ErrNotFound) {
				return nil, ErrUnauthorizedAddress
			}
			return nil, err
		}
		if a.UserID != req.BuyerID {
			return nil, ErrUnauthorizedAddress
		}
		ship.ReceiverName = a.FullName
		ship.ReceiverPhone = a.PhoneNumber
		ship.Address = formatAddress(a.StreetAddress, a.City, a.PostalCode)
		return ship, nil
	}

	if req.StreetAddress == "" {
		return nil, ErrMissingShippingInfo
	}
	ship.ReceiverName = req.ReceiverName
	ship.ReceiverPhone = req.ReceiverPhone
	ship.Address = formatAddress(req.StreetAddress, req.City, req.PostalCode)
	return ship, nil
}

func formatAddress(street, city, zip string) string {
	return fmt.Sprintf("%s, %s, %s", street, city, zip)
}

// BuyerHistory lists a buyer's orders, newest first, with item summaries.
func (s *Service) BuyerHistory(ctx context.Context, buyerID int64) ([]OrderResponse, error) {
	orders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp, err := s.historyEntry(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// SalesHistory lists the orders containing the seller's items. The total
// is replaced by that seller's subtotal and summaries cover only what
// they sold.
func (s *Service) SalesHistory(ctx context.Context, sellerID int64) ([]OrderResponse, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		items, err := s.orders.GetItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		subtotal := decimal.Zero
		var summaries []string
		for _, it := range items {
			v, err := s.variants.GetVariant(ctx, it.VariantID)
			if err != nil {
				return nil, err
			}
			if v.SellerID != sellerID {
				continue
			}
			price, err := decimal.NewFromString(it.Price)
			if err != nil {
				return nil, err
			}
			subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			summaries = append(summaries, fmt.Sprintf("%dx %s", it.Quantity, v.ProductName))
		}
		out = append(out, OrderResponse{
			OrderID:       o.ID,
			Status:        o.Status,
			PaymentMethod: o.PaymentMethod,
			Total:         subtotal.String(),
			CreatedAt:     o.CreatedAt,
			ItemSummaries: summaries,
		})
	}
	return out, nil
}

// OrderDetail returns one order for the given principal. Only the buyer
// or a seller with items in the order may view it; sellers see their
// items and subtotal, buyers the whole order.
func (s *Service) OrderDetail(ctx context.Context, orderID, userID int64) (*OrderResponse, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orders.GetItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	isBuyer := o.BuyerID == userID
	isSeller := false
	type lineView struct {
		item    Item
		variant *product.VariantDetail
	}
	lines := make([]lineView, 0, len(items))
	for _, it := range items {
		v, err := s.variants.GetVariant(ctx, it.VariantID)
		if err != nil {
			return nil, err
		}
		if v.SellerID == userID {
			isSeller = true
		}
		lines = append(lines, lineView{item: it, variant: v})
	}
	if !isBuyer && !isSeller {
		return nil, ErrForbidden
	}

	resp := &OrderResponse{
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
	}
	if ship, err := s.orders.GetShipping(ctx, o.ID); err == nil {
		resp.ReceiverName = ship.ReceiverName
		resp.Address = ship.Address
	}

	subtotal := decimal.Zero
	for _, ln := range lines {
		if !isBuyer && ln.variant.SellerID != userID {
			continue
		}
		price, err := decimal.NewFromString(ln.item.Price)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(ln.item.Quantity))))
		resp.Items = append(resp.Items, ItemDetail{
			ProductName: ln.variant.ProductName,
			Size:        ln.variant.Size,
			Color:       ln.variant.Color,
			Quantity:    ln.item.Quantity,
			Price:       ln.item.Price,
		})
	}
	if !isBuyer {
		// Sellers see the grand total of what they actually sold.
		resp.Total = subtotal.String()
	}
	return resp, nil
}

func (s *Service) historyEntry(ctx context.Context, o *Order) (*OrderResponse, error) {
	items, err := s.orders.GetItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]string, 0, len(items))
	for _, it := range items {
		v, err := s.variants.GetVariant(ctx, it.VariantID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, fmt.Sprintf("%dx %s", it.Quantity, v.ProductName))
	}
	return &OrderResponse{
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		ItemSummaries: summaries,
	}, nil
}
