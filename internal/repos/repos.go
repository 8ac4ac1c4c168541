package repos

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate key")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Pinger is the liveness probe used by /health/db and the startup loop.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Users interface {
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// Create assigns u.ID. It returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *domain.User) error
}

type Products interface {
	Create(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	// List returns products whose name contains q, case-insensitively.
	// An empty q lists everything.
	List(ctx context.Context, q string) ([]domain.Product, error)
	// Reserve subtracts qty from stock only if at least qty is available.
	// It returns ErrInsufficientStock otherwise, leaving stock unchanged.
	Reserve(ctx context.Context, id primitive.ObjectID, qty int) error
	// Release adds qty back to stock.
	Release(ctx context.Context, id primitive.ObjectID, qty int) error
}

type Orders interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
}
