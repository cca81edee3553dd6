package user

import (
	"context"
	"errors"
	"time"

	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	// DebitBalance withdraws amount from the user's wallet. The balance
	// check and the debit are one atomic statement; a short wallet fails
	// with ErrInsufficientBalance and writes nothing.
	DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error
	// CreditBalance adds amount to the user's balance. Only the payout
	// splitter credits sellers through this.
	CreditBalance(ctx context.Context, id int64, amount decimal.Decimal) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) conn(ctx context.Context) db.Querier {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.conn(ctx).QueryRow(ctx, `
		SELECT id, email, COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(shop_name,''), balance::text, created_at
		FROM users WHERE id=$1
	`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ShopName, &u.Balance, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepo) DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE users
		SET balance = balance - $2
		WHERE id = $1 AND balance >= $2
	`, id, amount.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInsufficientBalance
	}
	return nil
}

func (r *PGRepo) CreditBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET balance = balance + $2 WHERE id = $1
	`, id, amount.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
