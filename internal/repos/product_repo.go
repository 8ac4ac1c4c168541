package repos

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Category    string  `db:"category"`
	Stock       int     `db:"stock"`
}

func (r productRow) toDomain() (domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:          oid,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
	}, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	id := primitive.NewObjectID()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products(id,name,name_folded,description,price,category,stock)
		VALUES(?,?,?,?,?,?,?)
	`, id.Hex(), p.Name, foldName(p.Name), p.Description, p.Price, p.Category, p.Stock)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *ProductRepo) Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, name, description, price, category, stock
		FROM products
		WHERE id = ?
	`, id.Hex())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, q string) ([]domain.Product, error) {
	query := `SELECT id, name, description, price, category, stock FROM products`
	args := []any{}
	if q != "" {
		query += ` WHERE name_folded LIKE ? ESCAPE '\'`
		args = append(args, likePattern(q))
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Reserve is a single conditional UPDATE, so concurrent callers can never
// drive stock below zero.
func (r *ProductRepo) Reserve(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - ?
		WHERE id = ? AND stock >= ?
	`, qty, id.Hex(), qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepo) Release(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET stock = stock + ? WHERE id = ?`, qty, id.Hex())
	return err
}
