package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/loomcart/loomcart/internal/domain/product"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/postgres"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
)

type productRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewProductRepository(db postgres.IClient, logger *logger.Logger) product.Repository {
	return &productRepository{db: db, logger: logger}
}

// productRow is the flat row shape: sizes live in a text array and the
// per-size stock map in a jsonb column.
type productRow struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Sizes     pq.StringArray  `db:"sizes"`
	Stock     int             `db:"stock"`
	SizeStock []byte          `db:"size_stock"`

	types.BaseModel
}

func (row *productRow) toDomain() (*product.Product, error) {
	p := &product.Product{
		ID:        row.ID,
		Name:      row.Name,
		Price:     row.Price,
		Sizes:     []string(row.Sizes),
		Stock:     row.Stock,
		BaseModel: row.BaseModel,
	}
	if len(row.SizeStock) > 0 {
		if err := json.Unmarshal(row.SizeStock, &p.SizeStock); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode size stock").
				Mark(ierr.ErrDatabase)
		}
	}
	return p, nil
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	sizeStock, err := json.Marshal(p.SizeStock)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode size stock").
			Mark(ierr.ErrValidation)
	}

	query := `
		INSERT INTO products (
			id, name, price, sizes, stock, size_stock,
			status, created_at, updated_at, created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	r.logger.Debugw("creating product", "product_id", p.ID, "name", p.Name)

	_, err = r.db.Querier(ctx).ExecContext(ctx, query,
		p.ID, p.Name, p.Price, pq.StringArray(p.Sizes), p.Stock, sizeStock,
		p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A product with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create product").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	var row productRow
	query := `SELECT * FROM products WHERE id = $1 AND status != $2`

	err := r.db.Querier(ctx).GetContext(ctx, &row, query, id, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("product not found").
			WithHintf("Product with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

func (r *productRepository) GetBatch(ctx context.Context, ids []string) ([]*product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []productRow
	query := `SELECT * FROM products WHERE id = ANY($1) AND status != $2`

	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, pq.StringArray(ids), types.StatusDeleted); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get products").
			Mark(ierr.ErrDatabase)
	}

	// Missing ids are simply absent from the result; callers reconcile.
	products := make([]*product.Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context) ([]*product.Product, error) {
	var rows []productRow
	query := `SELECT * FROM products WHERE status != $1 ORDER BY created_at DESC`

	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, types.StatusDeleted); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}

	products := make([]*product.Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	sizeStock, err := json.Marshal(p.SizeStock)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode size stock").
			Mark(ierr.ErrValidation)
	}

	query := `
		UPDATE products SET
			name = $2,
			price = $3,
			sizes = $4,
			stock = $5,
			size_stock = $6,
			updated_at = $7,
			updated_by = $8
		WHERE id = $1`

	r.logger.Debugw("updating product", "product_id", p.ID)

	result, err := r.db.Querier(ctx).ExecContext(ctx, query,
		p.ID, p.Name, p.Price, pq.StringArray(p.Sizes), p.Stock, sizeStock,
		p.UpdatedAt, p.UpdatedBy)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update product").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("product not found").
			WithHintf("Product with ID %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// ConsumeStock decrements stock in one conditional statement. The WHERE
// clause carries the availability check, so two concurrent consumers cannot
// both succeed on the last unit.
func (r *productRepository) ConsumeStock(ctx context.Context, productID string, size string, quantity int) error {
	var (
		result sql.Result
		err    error
	)

	if size == "" {
		query := `
			UPDATE products
			SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2`
		result, err = r.db.Querier(ctx).ExecContext(ctx, query, productID, quantity)
	} else {
		query := `
			UPDATE products
			SET size_stock = jsonb_set(size_stock, ARRAY[$3],
				to_jsonb(COALESCE((size_stock->>$3)::int, 0) - $2)),
			    updated_at = now()
			WHERE id = $1 AND COALESCE((size_stock->>$3)::int, 0) >= $2`
		result, err = r.db.Querier(ctx).ExecContext(ctx, query, productID, quantity, size)
	}
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to consume stock").
			Mark(ierr.ErrDatabase)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		// Either the product is gone or the stock ran out between the cart
		// check and checkout. Disambiguate for the caller.
		if _, getErr := r.Get(ctx, productID); getErr != nil {
			return getErr
		}
		return ierr.NewError("insufficient stock").
			WithHint("The requested quantity is no longer available").
			WithReportableDetails(map[string]any{
				"product_id": productID,
				"size":       size,
				"requested":  quantity,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	r.logger.Debugw("consumed stock", "product_id", productID, "size", size, "quantity", quantity)
	return nil
}
