package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	ItemsJSON string `db:"items_json"`
	Status    string `db:"status"`
}

// Create inserts the whole order, header and items, as one row.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	id := primitive.NewObjectID()
	_, err = r.db.ExecContext(ctx, `
	  INSERT INTO orders (id, user_id, items_json, status, created_at)
	  VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, id.Hex(), o.UserID, string(items), o.Status)
	if err != nil {
		return err
	}
	o.ID = id
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, user_id, items_json, status
		FROM orders
		WHERE id = ?
	`, id.Hex())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	o := &domain.Order{ID: id, UserID: row.UserID, Status: row.Status}
	if err := json.Unmarshal([]byte(row.ItemsJSON), &o.Items); err != nil {
		return nil, err
	}
	return o, nil
}
