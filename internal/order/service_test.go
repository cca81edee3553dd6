package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fashionapp/resale-checkout/internal/address"
	"github.com/fashionapp/resale-checkout/internal/product"
	"github.com/fashionapp/resale-checkout/internal/user"
)

//
// ---------- stubs & fakes ----------
//

type snapshotter interface {
	snapshot() any
	restore(any)
}

// memRunner mimics transactional scope over the in-memory stores: on
// error every registered store is restored to its pre-call state.
type memRunner struct{ stores []snapshotter }

func (r *memRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snaps := make([]any, len(r.stores))
	for i, s := range r.stores {
		snaps[i] = s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for i, s := range r.stores {
			s.restore(snaps[i])
		}
		return err
	}
	return nil
}

// passRunner has no rollback; used for the concurrency test where the
// only mutation before a failure is the (atomic) reserve itself.
type passRunner struct{}

func (passRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memVariants struct {
	mu   sync.Mutex
	byID map[int64]*product.VariantDetail
}

func (m *memVariants) GetVariant(ctx context.Context, id int64) (*product.VariantDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok {
		return nil, product.ErrVariantNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVariants) ReserveStock(ctx context.Context, id int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok {
		return product.ErrVariantNotFound
	}
	if v.Stock < qty {
		return &product.InsufficientStockError{VariantID: id}
	}
	v.Stock -= qty
	return nil
}

func (m *memVariants) CountActiveBySeller(ctx context.Context, sellerID int64) (int, error) {
	return 0, nil
}

func (m *memVariants) snapshot() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[int64]*product.VariantDetail, len(m.byID))
	for k, v := range m.byID {
		vv := *v
		cp[k] = &vv
	}
	return cp
}

func (m *memVariants) restore(s any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = s.(map[int64]*product.VariantDetail)
}

func (m *memVariants) stock(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Stock
}

type memUsers struct {
	mu       sync.Mutex
	balances map[int64]decimal.Decimal
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &user.User{ID: id, Balance: b.String()}, nil
}

func (m *memUsers) DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[id]
	if !ok {
		return user.ErrNotFound
	}
	if b.LessThan(amount) {
		return user.ErrInsufficientBalance
	}
	m.balances[id] = b.Sub(amount)
	return nil
}

func (m *memUsers) CreditBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[id]
	if !ok {
		return user.ErrNotFound
	}
	m.balances[id] = b.Add(amount)
	return nil
}

func (m *memUsers) snapshot() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[int64]decimal.Decimal, len(m.balances))
	for k, v := range m.balances {
		cp[k] = v
	}
	return cp
}

func (m *memUsers) restore(s any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = s.(map[int64]decimal.Decimal)
}

func (m *memUsers) balance(id int64) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[id]
}

type memAddresses struct{ byID map[int64]*address.Address }

func (m *memAddresses) GetByID(ctx context.Context, id int64) (*address.Address, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, address.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type memOrders struct {
	mu       sync.Mutex
	nextID   int64
	orders   map[int64]*Order
	items    map[int64][]Item
	ships    map[int64]*Shipping
	variants *memVariants
}

func newMemOrders(variants *memVariants) *memOrders {
	return &memOrders{
		orders:   map[int64]*Order{},
		items:    map[int64][]Item{},
		ships:    map[int64]*Shipping{},
		variants: variants,
	}
}

func (m *memOrders) Create(ctx context.Context, o *Order, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	cp := *o
	m.orders[o.ID] = &cp
	for i := range items {
		items[i].OrderID = o.ID
		items[i].ID = int64(i + 1)
	}
	m.items[o.ID] = append([]Item(nil), items...)
	return nil
}

func (m *memOrders) CreateShipping(ctx context.Context, s *Shipping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.ships[s.OrderID] = &cp
	return nil
}

func (m *memOrders) GetByID(ctx context.Context, id int64) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) GetByIDForUpdate(ctx context.Context, id int64) (*Order, error) {
	return m.GetByID(ctx, id)
}

func (m *memOrders) GetItems(ctx context.Context, orderID int64) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.items[orderID]...), nil
}

func (m *memOrders) GetShipping(ctx context.Context, orderID int64) (*Shipping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.ships[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memOrders) ListByBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for id := m.nextID; id >= 1; id-- {
		if o, ok := m.orders[id]; ok && o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) ListBySeller(ctx context.Context, sellerID int64) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for id := m.nextID; id >= 1; id-- {
		o, ok := m.orders[id]
		if !ok {
			continue
		}
		for _, it := range m.items[id] {
			if v, ok := m.variants.byID[it.VariantID]; ok && v.SellerID == sellerID {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *memOrders) snapshot() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := newMemOrders(m.variants)
	cp.nextID = m.nextID
	for k, v := range m.orders {
		vv := *v
		cp.orders[k] = &vv
	}
	for k, v := range m.items {
		cp.items[k] = append([]Item(nil), v...)
	}
	for k, v := range m.ships {
		vv := *v
		cp.ships[k] = &vv
	}
	return cp
}

func (m *memOrders) restore(s any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := s.(*memOrders)
	m.nextID = prev.nextID
	m.orders = prev.orders
	m.items = prev.items
	m.ships = prev.ships
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type stubGateway struct{ err error }

func (g *stubGateway) CreatePaymentURL(o *Order, clientIP string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("https://gateway.test/pay?ref=%d&ip=%s", o.ID, clientIP), nil
}

// stubFinalizer mimics the payment processor's wallet finalize by
// flipping the order to PAID.
type stubFinalizer struct {
	orders *memOrders
	calls  []int64
	err    error
}

func (f *stubFinalizer) FinalizeWallet(ctx context.Context, orderID int64) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, orderID)
	return f.orders.UpdateStatus(ctx, orderID, StatusPaid)
}

//
// ---------- fixture ----------
//

type fixture struct {
	svc       *Service
	variants  *memVariants
	users     *memUsers
	addresses *memAddresses
	orders    *memOrders
	finalizer *stubFinalizer
}

const (
	buyerID   = int64(7)
	sellerA   = int64(100)
	sellerB   = int64(200)
	strangers = int64(999)
)

func newFixture(t *testing.T, concurrent bool) *fixture {
	t.Helper()
	variants := &memVariants{byID: map[int64]*product.VariantDetail{
		1: {VariantID: 1, ProductID: 10, ProductName: "Denim Jacket", Size: "M", Color: "blue", BasePrice: "50.00", Stock: 5, SellerID: sellerA},
		2: {VariantID: 2, ProductID: 20, ProductName: "Silk Scarf", Size: "OS", Color: "red", BasePrice: "125.00", Stock: 3, SellerID: sellerB},
		3: {VariantID: 3, ProductID: 30, ProductName: "Wool Coat", Size: "L", Color: "grey", BasePrice: "80.00", Stock: 2, SellerID: sellerA},
	}}
	users := &memUsers{balances: map[int64]decimal.Decimal{
		buyerID: decimal.RequireFromString("50"),
		sellerA: decimal.Zero,
		sellerB: decimal.Zero,
	}}
	addresses := &memAddresses{byID: map[int64]*address.Address{
		1: {ID: 1, UserID: buyerID, FullName: "An Nguyen", PhoneNumber: "0901234567", StreetAddress: "12 Ly Thuong Kiet", City: "Hanoi", PostalCode: "100000"},
		2: {ID: 2, UserID: strangers, FullName: "Someone Else", PhoneNumber: "0907654321", StreetAddress: "1 Elsewhere", City: "Hue", PostalCode: "530000"},
	}}
	orders := newMemOrders(variants)
	fin := &stubFinalizer{orders: orders}

	var runner interface {
		RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	}
	if concurrent {
		runner = passRunner{}
	} else {
		runner = &memRunner{stores: []snapshotter{variants, users, orders}}
	}

	svc := NewService(runner, orders, variants, users, addresses, &stubGateway{}, fin, zap.NewNop())
	return &fixture{svc: svc, variants: variants, users: users, addresses: addresses, orders: orders, finalizer: fin}
}

func manualShipping(req *CreateOrderRequest) *CreateOrderRequest {
	req.ReceiverName = "An Nguyen"
	req.ReceiverPhone = "0901234567"
	req.StreetAddress = "12 Ly Thuong Kiet"
	req.City = "Hanoi"
	req.PostalCode = "100000"
	return req
}

//
// ---------- tests ----------
//

func TestPlaceOrder_CODHappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		Items: []CreateOrderItem{
			{VariantID: 1, Quantity: 1},
			{VariantID: 2, Quantity: 2},
		},
	})
	resp, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if resp.Status != StatusPlacedCOD {
		t.Fatalf("status=%s, want %s", resp.Status, StatusPlacedCOD)
	}
	if resp.Total != "300.00" {
		t.Fatalf("total=%s, want 300.00", resp.Total)
	}
	if f.variants.stock(1) != 4 || f.variants.stock(2) != 1 {
		t.Fatalf("stock not reserved: v1=%d v2=%d", f.variants.stock(1), f.variants.stock(2))
	}
	if resp.Address != "12 Ly Thuong Kiet, Hanoi, 100000" {
		t.Fatalf("address snapshot=%q", resp.Address)
	}
	if len(resp.ItemSummaries) != 2 || resp.ItemSummaries[1] != "2x Silk Scarf" {
		t.Fatalf("summaries=%v", resp.ItemSummaries)
	}
	if resp.PaymentURL != "" {
		t.Fatalf("COD order should have no payment url, got %s", resp.PaymentURL)
	}
}

func TestPlaceOrder_InsufficientStockAllOrNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		Items: []CreateOrderItem{
			{VariantID: 1, Quantity: 1},  // fine
			{VariantID: 2, Quantity: 99}, // over stock
		},
	})
	_, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	var stockErr *product.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err=%v, want InsufficientStockError", err)
	}
	if stockErr.VariantID != 2 {
		t.Fatalf("offending variant=%d, want 2", stockErr.VariantID)
	}
	// No partial writes survive, including the first line's reserve.
	if f.variants.stock(1) != 5 {
		t.Fatalf("stock for variant 1 leaked: %d", f.variants.stock(1))
	}
	if f.orders.count() != 0 {
		t.Fatalf("order persisted despite failure")
	}
}

func TestPlaceOrder_WalletInsufficientBalance(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	// Balance is 50, order totals 80.
	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodWallet,
		Items:         []CreateOrderItem{{VariantID: 3, Quantity: 1}},
	})
	_, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if !errors.Is(err, user.ErrInsufficientBalance) {
		t.Fatalf("err=%v, want ErrInsufficientBalance", err)
	}
	if f.variants.stock(3) != 2 {
		t.Fatalf("stock decremented despite rejected wallet order: %d", f.variants.stock(3))
	}
	if !f.users.balance(buyerID).Equal(decimal.RequireFromString("50")) {
		t.Fatalf("balance changed: %s", f.users.balance(buyerID))
	}
}

func TestPlaceOrder_WalletSuccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodWallet,
		Items:         []CreateOrderItem{{VariantID: 1, Quantity: 1}},
	})
	resp, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if resp.Status != StatusPaid {
		t.Fatalf("status=%s, want %s", resp.Status, StatusPaid)
	}
	if !f.users.balance(buyerID).Equal(decimal.Zero) {
		t.Fatalf("balance=%s, want 0", f.users.balance(buyerID))
	}
	if len(f.finalizer.calls) != 1 || f.finalizer.calls[0] != resp.OrderID {
		t.Fatalf("finalizer calls=%v", f.finalizer.calls)
	}
}

func TestPlaceOrder_VNPayReturnsRedirect(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodVNPay,
		Items:         []CreateOrderItem{{VariantID: 1, Quantity: 1}},
	})
	resp, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if resp.Status != StatusAwaitingPayment {
		t.Fatalf("status=%s, want %s", resp.Status, StatusAwaitingPayment)
	}
	if resp.PaymentURL == "" {
		t.Fatal("missing payment url for VNPAY order")
	}
}

func TestPlaceOrder_SavedAddressOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	other := int64(2) // owned by another buyer
	req := &CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		AddressID:     &other,
		Items:         []CreateOrderItem{{VariantID: 1, Quantity: 1}},
	}
	_, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if !errors.Is(err, ErrUnauthorizedAddress) {
		t.Fatalf("err=%v, want ErrUnauthorizedAddress", err)
	}
	if f.orders.count() != 0 {
		t.Fatal("order persisted despite unauthorized address")
	}
	if f.variants.stock(1) != 5 {
		t.Fatalf("stock leaked: %d", f.variants.stock(1))
	}
}

func TestPlaceOrder_SavedAddressSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	own := int64(1)
	req := &CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		AddressID:     &own,
		Items:         []CreateOrderItem{{VariantID: 1, Quantity: 1}},
	}
	resp, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// Mutating the saved address afterwards must not touch the snapshot.
	f.addresses.byID[1].StreetAddress = "99 Changed St"
	ship, err := f.orders.GetShipping(context.Background(), resp.OrderID)
	if err != nil {
		t.Fatalf("GetShipping: %v", err)
	}
	if ship.Address != "12 Ly Thuong Kiet, Hanoi, 100000" {
		t.Fatalf("snapshot=%q", ship.Address)
	}
}

func TestPlaceOrder_MissingShippingInfo(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := &CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		Items:         []CreateOrderItem{{VariantID: 1, Quantity: 1}},
	}
	_, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if !errors.Is(err, ErrMissingShippingInfo) {
		t.Fatalf("err=%v, want ErrMissingShippingInfo", err)
	}
	if f.variants.stock(1) != 5 {
		t.Fatalf("stock leaked: %d", f.variants.stock(1))
	}
}

func TestPlaceOrder_RejectsUnknownMethod(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: "CHECK",
		Items:         []CreateOrderItem{{VariantID: 1, Quantity: 1}},
	})
	if _, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9"); err == nil {
		t.Fatal("expected validation error for unknown payment method")
	}
}

func TestPlaceOrder_CapturesUnitPrice(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		Items:         []CreateOrderItem{{VariantID: 1, Quantity: 2}},
	})
	resp, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// A later catalog price change leaves the captured price alone.
	f.variants.byID[1].BasePrice = "500.00"
	items, _ := f.orders.GetItems(context.Background(), resp.OrderID)
	if len(items) != 1 || items[0].Price != "50.00" {
		t.Fatalf("captured price=%v", items)
	}
	if resp.Total != "100.00" {
		t.Fatalf("total=%s, want 100.00", resp.Total)
	}
}

func TestPlaceOrder_ConcurrentReserveNeverOversells(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	const attempts = 12 // stock is 5
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := manualShipping(&CreateOrderRequest{
				BuyerID:       buyerID,
				PaymentMethod: MethodCOD,
				Items:         []CreateOrderItem{{VariantID: 1, Quantity: 1}},
			})
			_, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		var stockErr *product.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 5 {
		t.Fatalf("successes=%d, want 5", success)
	}
	if f.variants.stock(1) != 0 {
		t.Fatalf("final stock=%d, want 0", f.variants.stock(1))
	}
}

func TestOrderDetail_AccessControl(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		Items: []CreateOrderItem{
			{VariantID: 1, Quantity: 1}, // seller A, 50.00
			{VariantID: 2, Quantity: 2}, // seller B, 250.00
		},
	})
	resp, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	buyerView, err := f.svc.OrderDetail(context.Background(), resp.OrderID, buyerID)
	if err != nil {
		t.Fatalf("buyer OrderDetail: %v", err)
	}
	if buyerView.Total != "300.00" || len(buyerView.Items) != 2 {
		t.Fatalf("buyer view total=%s items=%d", buyerView.Total, len(buyerView.Items))
	}

	sellerView, err := f.svc.OrderDetail(context.Background(), resp.OrderID, sellerB)
	if err != nil {
		t.Fatalf("seller OrderDetail: %v", err)
	}
	if sellerView.Total != "250.00" || len(sellerView.Items) != 1 {
		t.Fatalf("seller view total=%s items=%d", sellerView.Total, len(sellerView.Items))
	}

	if _, err := f.svc.OrderDetail(context.Background(), resp.OrderID, strangers); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger err=%v, want ErrForbidden", err)
	}
}

func TestSalesHistory_SellerSubtotal(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := manualShipping(&CreateOrderRequest{
		BuyerID:       buyerID,
		PaymentMethod: MethodCOD,
		Items: []CreateOrderItem{
			{VariantID: 1, Quantity: 1},
			{VariantID: 2, Quantity: 2},
		},
	})
	if _, err := f.svc.PlaceOrder(context.Background(), req, "203.0.113.9"); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	sales, err := f.svc.SalesHistory(context.Background(), sellerA)
	if err != nil {
		t.Fatalf("SalesHistory: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("sales=%d, want 1", len(sales))
	}
	if sales[0].Total != "50.00" {
		t.Fatalf("seller subtotal=%s, want 50.00", sales[0].Total)
	}
	if len(sales[0].ItemSummaries) != 1 || sales[0].ItemSummaries[0] != "1x Denim Jacket" {
		t.Fatalf("summaries=%v", sales[0].ItemSummaries)
	}
}
