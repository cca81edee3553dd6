package order

import (
	"context"
	"errors"
	"time"

	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) error
	CreateShipping(ctx context.Context, s *Shipping) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	// GetByIDForUpdate takes a row-level exclusive lock on the order so
	// concurrent payment attempts for the same order serialize.
	GetByIDForUpdate(ctx context.Context, id int64) (*Order, error)
	GetItems(ctx context.Context, orderID int64) ([]Item, error)
	GetShipping(ctx context.Context, orderID int64) (*Shipping, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) conn(ctx context.Context) db.Querier {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	q := r.conn(ctx)
	if err := q.QueryRow(ctx, `
		INSERT INTO orders (buyer_id, status, payment_method, total, created_at)
		VALUES ($1,$2,$3,$4,NOW())
		RETURNING id, created_at
	`, o.BuyerID, o.Status, o.PaymentMethod, o.Total).Scan(&o.ID, &o.CreatedAt); err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = o.ID
		if err := q.QueryRow(ctx, `
			INSERT INTO order_items (order_id, variant_id, quantity, price)
			VALUES ($1,$2,$3,$4)
			RETURNING id
		`, o.ID, items[i].VariantID, items[i].Quantity, items[i].Price).Scan(&items[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) CreateShipping(ctx context.Context, s *Shipping) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO shippings (order_id, receiver_name, receiver_phone, address, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, s.OrderID, s.ReceiverName, s.ReceiverPhone, s.Address, s.Status).Scan(&s.ID)
}

const orderColumns = `id, buyer_id, status, payment_method, total::text, created_at`

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	return r.getByID(ctx, id, "")
}

func (r *PGRepo) GetByIDForUpdate(ctx context.Context, id int64) (*Order, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *PGRepo) getByID(ctx context.Context, id int64, suffix string) (*Order, error) {
	var o Order
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`+suffix, id,
	).Scan(&o.ID, &o.BuyerID, &o.Status, &o.PaymentMethod, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) GetItems(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, order_id, variant_id, quantity, price::text
		FROM order_items WHERE order_id=$1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) GetShipping(ctx context.Context, orderID int64) (*Shipping, error) {
	var s Shipping
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, order_id, receiver_name, receiver_phone, address,
		       COALESCE(tracking_number,''), COALESCE(carrier,''), status
		FROM shippings WHERE order_id=$1
	`, orderID).Scan(&s.ID, &s.OrderID, &s.ReceiverName, &s.ReceiverPhone, &s.Address,
		&s.TrackingNumber, &s.Carrier, &s.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE buyer_id=$1
		ORDER BY created_at DESC
	`, buyerID)
}

func (r *PGRepo) ListBySeller(ctx context.Context, sellerID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.list(ctx, `
		SELECT DISTINCT o.id, o.buyer_id, o.status, o.payment_method, o.total::text, o.created_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN product_variants pv ON pv.id = oi.variant_id
		JOIN products p ON p.id = pv.product_id
		WHERE p.seller_id = $1
		ORDER BY o.created_at DESC
	`, sellerID)
}

func (r *PGRepo) list(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.Status, &o.PaymentMethod, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
