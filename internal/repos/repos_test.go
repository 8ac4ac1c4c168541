package repos

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func openMem(t *testing.T) (*UserRepo, *ProductRepo, *OrderRepo) {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), NewProductRepo(db), NewOrderRepo(db)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%lamp%", likePattern("LAMP"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestUserEmailIsUnique(t *testing.T) {
	users, _, _ := openMem(t)
	ctx := context.Background()

	u := &domain.User{Email: "a@example.com", Hash: "h"}
	require.NoError(t, users.Create(ctx, u))
	assert.False(t, u.ID.IsZero())

	err := users.Create(ctx, &domain.User{Email: "a@example.com", Hash: "h2"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = users.ByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReserveNeverGoesNegative(t *testing.T) {
	_, prods, _ := openMem(t)
	ctx := context.Background()

	p := &domain.Product{Name: "Lamp", Price: 5, Stock: 3}
	require.NoError(t, prods.Create(ctx, p))

	require.NoError(t, prods.Reserve(ctx, p.ID, 2))
	assert.ErrorIs(t, prods.Reserve(ctx, p.ID, 2), ErrInsufficientStock)
	require.NoError(t, prods.Release(ctx, p.ID, 2))

	got, err := prods.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	assert.ErrorIs(t, prods.Reserve(ctx, primitive.NewObjectID(), 1), ErrInsufficientStock)
}

func TestListMatchesLiterally(t *testing.T) {
	_, prods, _ := openMem(t)
	ctx := context.Background()
	for _, n := range []string{"Desk Lamp", "50% Off Lamp", "Chair"} {
		require.NoError(t, prods.Create(ctx, &domain.Product{Name: n, Price: 1}))
	}

	got, err := prods.List(ctx, "lamp")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = prods.List(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "50% Off Lamp", got[0].Name)

	got, err = prods.List(ctx, "sofa")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListFoldsNonASCII(t *testing.T) {
	_, prods, _ := openMem(t)
	ctx := context.Background()
	require.NoError(t, prods.Create(ctx, &domain.Product{Name: "ÉCLAIR Deluxe", Price: 3}))
	require.NoError(t, prods.Create(ctx, &domain.Product{Name: "Straße Map", Price: 2}))

	for _, q := range []string{"éclair", "ÉCLAIR", "Éclair deluxe"} {
		got, err := prods.List(ctx, q)
		require.NoError(t, err)
		require.Len(t, got, 1, q)
		assert.Equal(t, "ÉCLAIR Deluxe", got[0].Name)
	}

	got, err := prods.List(ctx, "STRASSE")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = prods.List(ctx, "STRAßE")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOrderRoundTrip(t *testing.T) {
	_, _, orders := openMem(t)
	ctx := context.Background()

	o := &domain.Order{
		UserID: "u1",
		Items:  []domain.OrderItem{{ProductID: primitive.NewObjectID().Hex(), Quantity: 2}},
		Status: domain.OrderStatusPlaced,
	}
	require.NoError(t, orders.Create(ctx, o))

	got, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, domain.OrderStatusPlaced, got.Status)

	_, err = orders.Get(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}
