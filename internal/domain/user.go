package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Email string             `bson:"email"`
	Name  string             `bson:"name"`
	Hash  string             `bson:"password"`
}
