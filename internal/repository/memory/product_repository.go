package memory

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

// DefaultMaxBatchSize matches the batch limit of the production document store.
const DefaultMaxBatchSize = 500

// ProductRepository keeps products in process memory. It is used when no MongoDB
// URI is configured and in tests.
type ProductRepository struct {
	mu           sync.RWMutex
	products     map[primitive.ObjectID]models.Product
	order        []primitive.ObjectID
	maxBatchSize int
}

// NewProductRepository creates an empty store. A non-positive maxBatchSize selects DefaultMaxBatchSize.
func NewProductRepository(maxBatchSize int) *ProductRepository {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &ProductRepository{
		products:     make(map[primitive.ObjectID]models.Product),
		maxBatchSize: maxBatchSize,
	}
}

// MaxBatchSize returns the largest batch CommitBatch accepts.
func (r *ProductRepository) MaxBatchSize() int {
	return r.maxBatchSize
}

// List returns all products in insertion order.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

// Add stores a new product, assigning an ID when missing.
func (r *ProductRepository) Add(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		return primitive.NilObjectID, fmt.Errorf("product %s already exists", product.ID.Hex())
	}
	r.put(product)
	return product.ID, nil
}

// Get returns the product with the given ID.
func (r *ProductRepository) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("get product %s: %w", id.Hex(), models.ErrProductNotFound)
	}
	return product, nil
}

// Update replaces an existing product.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, product models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("update product %s: %w", id.Hex(), models.ErrProductNotFound)
	}
	product.ID = id
	r.products[id] = product
	return nil
}

// Delete removes an existing product.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("delete product %s: %w", id.Hex(), models.ErrProductNotFound)
	}
	r.remove(id)
	return nil
}

// CommitBatch applies all operations or none of them.
func (r *ProductRepository) CommitBatch(ctx context.Context, ops []models.BatchOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ops) > r.maxBatchSize {
		return fmt.Errorf("commit %d operations: %w", len(ops), models.ErrBatchTooLarge)
	}
	for i, op := range ops {
		if op.ID.IsZero() {
			return fmt.Errorf("batch operation %d has no id", i)
		}
		if op.Kind != models.BatchOpSet && op.Kind != models.BatchOpDelete {
			return fmt.Errorf("batch operation %d has unknown kind %q", i, op.Kind)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, op := range ops {
		switch op.Kind {
		case models.BatchOpSet:
			product := op.Product
			product.ID = op.ID
			r.put(product)
		case models.BatchOpDelete:
			r.remove(op.ID)
		}
	}
	return nil
}

func (r *ProductRepository) put(product models.Product) {
	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = product
}

func (r *ProductRepository) remove(id primitive.ObjectID) {
	if _, exists := r.products[id]; !exists {
		return
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
