package repos

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

type userRow struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
}

func (r userRow) toDomain() (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: oid, Email: r.Email, Name: r.Name, Hash: r.Hash}, nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u userRow
	err := r.DB.GetContext(ctx, &u, `SELECT id,email,name,password_hash FROM users WHERE email=?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u.toDomain()
}

func (r *UserRepo) ByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u userRow
	err := r.DB.GetContext(ctx, &u, `SELECT id,email,name,password_hash FROM users WHERE id=?`, id.Hex())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u.toDomain()
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	id := primitive.NewObjectID()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users(id,email,name,password_hash)
		VALUES(?,?,?,?)
	`, id.Hex(), u.Email, u.Name, u.Hash)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}
