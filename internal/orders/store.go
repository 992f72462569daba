package orders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound indicates the order does not exist in the store.
var ErrNotFound = errors.New("order not found")

// Store is the order-storage collaborator surface the service depends on.
type Store interface {
	// Get fetches an order with its embedded address and item relations.
	Get(ctx context.Context, orderID string) (*Order, error)

	// SetCarrierOrderID merges the carrier order identifier into the
	// order's metadata without replacing the rest of the map.
	SetCarrierOrderID(ctx context.Context, orderID string, carrierID any) error
}

// MongoStore is the MongoDB-backed order store adapter.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a store over the host system's orders collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("orders")}
}

// Get fetches an order by id.
func (s *MongoStore) Get(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	err := s.col.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching order %s: %w", orderID, err)
	}
	return &order, nil
}

// SetCarrierOrderID patches the single metadata key. Updating the dotted
// path keeps the rest of the metadata map intact.
func (s *MongoStore) SetCarrierOrderID(ctx context.Context, orderID string, carrierID any) error {
	update := bson.M{"$set": bson.M{"metadata." + MetadataCarrierOrderID: carrierID}}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": orderID}, update)
	if err != nil {
		return fmt.Errorf("writing carrier order id for %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
