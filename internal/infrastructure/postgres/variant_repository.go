package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo implementación del puerto VariantRepository sobre PostgreSQL.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante; SKU repetido devuelve domain.ErrDuplicate.
func (r *VariantRepo) Create(ctx context.Context, variant *entity.Variant) error {
	query := `
		INSERT INTO variants (id, product, size, color, unique_sku, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		variant.ID, variant.Product, variant.Size, variant.Color, variant.UniqueSKU, variant.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return classify("insert variant", err)
	}
	return nil
}

// GetByID obtiene una variante por ID; nil, nil si no existe.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	query := `
		SELECT id, product, size, color, unique_sku, created_at
		FROM variants WHERE id = $1`
	var v entity.Variant
	err := r.q.QueryRow(ctx, query, id).Scan(&v.ID, &v.Product, &v.Size, &v.Color, &v.UniqueSKU, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get variant", err)
	}
	return &v, nil
}

// List devuelve todas las variantes.
func (r *VariantRepo) List(ctx context.Context) ([]*entity.Variant, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product, size, color, unique_sku, created_at
		FROM variants ORDER BY product, size, color`)
	if err != nil {
		return nil, classify("list variants", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.Product, &v.Size, &v.Color, &v.UniqueSKU, &v.CreatedAt); err != nil {
			return nil, classify("scan variant", err)
		}
		list = append(list, &v)
	}
	return list, classify("list variants", rows.Err())
}
