package address

import (
	"context"
	"errors"
	"time"

	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("address not found")
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Address, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) conn(ctx context.Context) db.Querier {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Address
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, user_id, full_name, phone_number, street_address, city,
		       COALESCE(state,''), postal_code, COALESCE(country,''), is_default
		FROM addresses WHERE id=$1
	`, id).Scan(&a.ID, &a.UserID, &a.FullName, &a.PhoneNumber, &a.StreetAddress,
		&a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
