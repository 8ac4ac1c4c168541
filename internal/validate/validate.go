package validate

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// Email trims and lower-cases s and reports whether it looks like an address.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID parses a 24-hex-char document identity.
func ID(s string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// MaxQ is the longest accepted search term, in bytes.
const MaxQ = 100

// Q trims a product search term and reports whether it is short enough.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > MaxQ {
		return "", false
	}
	return s, true
}

// Qty reports whether n is a usable order line quantity.
func Qty(n int) bool {
	return n >= 1
}
