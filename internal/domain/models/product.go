package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the persisted catalog entry. Every sync pass deletes all products and
// recreates them from the export, so Description, Attributes and Images edited in
// between two passes do not survive the next pass.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Quantity    float64            `bson:"quantity" json:"quantity"`
	Unit        string             `bson:"unit" json:"unit"`
	Rate        float64            `bson:"rate" json:"rate"`
	Amount      float64            `bson:"amount" json:"amount"`
	LastUpdated time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	SyncedAt    time.Time          `bson:"syncedAt" json:"syncedAt"`
	Description string             `bson:"description" json:"description"`
	Attributes  map[string]string  `bson:"attributes" json:"attributes"`
	Images      []string           `bson:"images" json:"images"`
}

// NewProductFromStock materializes a fresh catalog entry for a parsed stock row.
func NewProductFromStock(item StockItem, syncedAt time.Time) Product {
	return Product{
		ID:          primitive.NewObjectID(),
		Name:        item.Name,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		Rate:        item.Rate,
		Amount:      item.Amount,
		LastUpdated: item.LastUpdated,
		SyncedAt:    syncedAt,
		Description: "",
		Attributes:  map[string]string{},
		Images:      []string{},
	}
}

// BatchOpKind enumerates the write operations a batch may carry.
type BatchOpKind string

const (
	BatchOpSet    BatchOpKind = "set"
	BatchOpDelete BatchOpKind = "delete"
)

// BatchOp is one write inside an atomic store batch. Product is only read for sets.
type BatchOp struct {
	Kind    BatchOpKind
	ID      primitive.ObjectID
	Product Product
}

// SetOp builds a batch operation writing product under its own ID.
func SetOp(product Product) BatchOp {
	return BatchOp{Kind: BatchOpSet, ID: product.ID, Product: product}
}

// DeleteOp builds a batch operation removing the product with the given ID.
func DeleteOp(id primitive.ObjectID) BatchOp {
	return BatchOp{Kind: BatchOpDelete, ID: id}
}
