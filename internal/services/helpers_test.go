package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db := memdb(t)
	return services.NewAuthService(repos.NewUserRepo(db), services.NewTokens("test-secret"), bcrypt.MinCost)
}

func seedProduct(t *testing.T, prods repos.Products, name string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Price: 9.99, Stock: stock}
	if err := prods.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p
}

func wantKind(t *testing.T, err error, kind services.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %s error, got nil", kind)
	}
	if got := services.KindOf(err); got != kind {
		t.Fatalf("want %s error, got %s (%v)", kind, got, err)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("no reachable servers") }
