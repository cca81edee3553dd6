// Package product provides the catalog read model and the inventory ledger
// used by order placement.
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/fashionapp/resale-checkout/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrVariantNotFound = errors.New("product variant not found")
)

// InsufficientStockError names the variant that could not be reserved.
type InsufficientStockError struct {
	VariantID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %d", e.VariantID)
}

type Repository interface {
	GetVariant(ctx context.Context, variantID int64) (*VariantDetail, error)
	// ReserveStock decrements the variant's stock by qty if and only if
	// enough stock remains. The check and decrement are one atomic
	// statement, so concurrent reservations on the same variant cannot
	// both take the last unit.
	ReserveStock(ctx context.Context, variantID int64, qty int) error
	CountActiveBySeller(ctx context.Context, sellerID int64) (int, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) conn(ctx context.Context) db.Querier {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *PGRepo) GetVariant(ctx context.Context, variantID int64) (*VariantDetail, error) {
	var v VariantDetail
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT pv.id, p.id, p.name, pv.size, pv.color, p.base_price::text, pv.stock_quantity, p.seller_id
		FROM product_variants pv
		JOIN products p ON p.id = pv.product_id
		WHERE pv.id = $1
	`, variantID).Scan(&v.VariantID, &v.ProductID, &v.ProductName, &v.Size, &v.Color, &v.BasePrice, &v.Stock, &v.SellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepo) ReserveStock(ctx context.Context, variantID int64, qty int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE product_variants
		SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity >= $2
	`, variantID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing variant from a stock shortage.
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM product_variants WHERE id = $1)`, variantID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrVariantNotFound
		}
		return &InsufficientStockError{VariantID: variantID}
	}
	return nil
}

func (r *PGRepo) CountActiveBySeller(ctx context.Context, sellerID int64) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM products WHERE seller_id = $1 AND status = 'ACTIVE'
	`, sellerID).Scan(&n)
	return n, err
}
