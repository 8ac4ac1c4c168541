// Package mongo implements the repository interfaces on a MongoDB database.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"storefront/internal/domain"
	"storefront/internal/repos"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Pinger struct{ Client *mongo.Client }

func (p Pinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the unique email index backing registration.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}
	return nil
}

type UserRepository struct {
	Collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repos.Users {
	return &UserRepository{Collection: db.Collection("users")}
}

// emailFold matches addresses ignoring case.
var emailFold = &options.Collation{Locale: "en", Strength: 2}

// ByEmail expects a normalised address. Accounts stored before addresses were
// lower-cased are found by a second, case-insensitive lookup.
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.findOne(ctx, bson.M{"email": email})
	if !errors.Is(err, repos.ErrNotFound) {
		return u, err
	}
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(emailFold))
}

func (r *UserRepository) ByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	var u domain.User
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.ID = primitive.NewObjectID()
	if _, err := r.Collection.InsertOne(ctx, u); err != nil {
		u.ID = primitive.NilObjectID
		if mongo.IsDuplicateKeyError(err) {
			return repos.ErrDuplicate
		}
		return err
	}
	return nil
}

type ProductRepository struct {
	Collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repos.Products {
	return &ProductRepository{Collection: db.Collection("products")}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	p.ID = primitive.NewObjectID()
	if _, err := r.Collection.InsertOne(ctx, p); err != nil {
		p.ID = primitive.NilObjectID
		return err
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var p domain.Product
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, q string) ([]domain.Product, error) {
	cursor, err := r.Collection.Find(ctx, NameFilter(q))
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NameFilter builds the list filter; q is matched literally, ignoring case.
func NameFilter(q string) bson.M {
	if q == "" {
		return bson.M{}
	}
	return bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}}
}

func (r *ProductRepository) Reserve(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repos.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepository) Release(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": qty}})
	return err
}

type OrderRepository struct {
	Collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) repos.Orders {
	return &OrderRepository{Collection: db.Collection("orders")}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	o.ID = primitive.NewObjectID()
	if _, err := r.Collection.InsertOne(ctx, o); err != nil {
		o.ID = primitive.NilObjectID
		return err
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var o domain.Order
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
