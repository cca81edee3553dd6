package payment

import (
	"context"
	"errors"

	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByOrderID(ctx context.Context, orderID int64) (*Payment, error)
}

type PayoutRepository interface {
	Create(ctx context.Context, p *Payout) error
	ListByOrder(ctx context.Context, orderID int64) ([]Payout, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]Payout, error)
}

type PGPaymentRepo struct{ db *pgxpool.Pool }

func NewPGPaymentRepo(db *pgxpool.Pool) *PGPaymentRepo { return &PGPaymentRepo{db: db} }

func (r *PGPaymentRepo) conn(ctx context.Context) db.Querier {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *PGPaymentRepo) Create(ctx context.Context, p *Payment) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO payments (order_id, amount, payment_method, status, payment_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, p.OrderID, p.Amount, p.Method, p.Status, p.PaidAt).Scan(&p.ID)
}

func (r *PGPaymentRepo) GetByOrderID(ctx context.Context, orderID int64) (*Payment, error) {
	var p Payment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, order_id, amount::text, payment_method, status, payment_date
		FROM payments WHERE order_id=$1
	`, orderID).Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

type PGPayoutRepo struct{ db *pgxpool.Pool }

func NewPGPayoutRepo(db *pgxpool.Pool) *PGPayoutRepo { return &PGPayoutRepo{db: db} }

func (r *PGPayoutRepo) conn(ctx context.Context) db.Querier {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *PGPayoutRepo) Create(ctx context.Context, p *Payout) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO payouts (seller_id, order_id, amount, status, arrival_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, p.SellerID, p.OrderID, p.Amount, p.Status, p.ArrivalAt).Scan(&p.ID)
}

func (r *PGPayoutRepo) ListByOrder(ctx context.Context, orderID int64) ([]Payout, error) {
	return r.list(ctx, `
		SELECT id, seller_id, order_id, amount::text, status, arrival_date
		FROM payouts WHERE order_id=$1 ORDER BY id
	`, orderID)
}

func (r *PGPayoutRepo) ListBySeller(ctx context.Context, sellerID int64) ([]Payout, error) {
	return r.list(ctx, `
		SELECT id, seller_id, order_id, amount::text, status, arrival_date
		FROM payouts WHERE seller_id=$1 ORDER BY id
	`, sellerID)
}

func (r *PGPayoutRepo) list(ctx context.Context, sql string, args ...any) ([]Payout, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payout
	for rows.Next() {
		var p Payout
		if err := rows.Scan(&p.ID, &p.SellerID, &p.OrderID, &p.Amount, &p.Status, &p.ArrivalAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
