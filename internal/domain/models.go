package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// OrderStatusPlaced is the only status an order ever has.
const OrderStatusPlaced = "PLACED"

type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Stock       int                `json:"stock" bson:"stock"`
}

type OrderItem struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

type Order struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID string             `json:"user_id" bson:"user_id"`
	Items  []OrderItem        `json:"items" bson:"items"`
	Status string             `json:"status" bson:"status"`
}
