package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

// MaxBatchSize bounds the number of writes committed in one transaction.
const MaxBatchSize = 500

// Repository defines the product storage operations.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	Add(ctx context.Context, product models.Product) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, product models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CommitBatch(ctx context.Context, ops []models.BatchOp) error
	MaxBatchSize() int
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, collName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: collName,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// MaxBatchSize returns the largest batch CommitBatch accepts.
func (r *MongoDBRepository) MaxBatchSize() int {
	return MaxBatchSize
}

// List returns every product in the collection.
func (r *MongoDBRepository) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection().Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Add inserts a product, assigning an ID when missing.
func (r *MongoDBRepository) Add(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := r.collection().InsertOne(ctx, product); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert product: %w", err)
	}
	return product.ID, nil
}

// Get loads a single product.
func (r *MongoDBRepository) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, fmt.Errorf("get product %s: %w", id.Hex(), models.ErrProductNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product %s: %w", id.Hex(), err)
	}
	return product, nil
}

// Update replaces an existing product document.
func (r *MongoDBRepository) Update(ctx context.Context, id primitive.ObjectID, product models.Product) error {
	product.ID = id
	res, err := r.collection().ReplaceOne(ctx, bson.M{"_id": id}, product)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update product %s: %w", id.Hex(), models.ErrProductNotFound)
	}
	return nil
}

// Delete removes a product document.
func (r *MongoDBRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete product %s: %w", id.Hex(), models.ErrProductNotFound)
	}
	return nil
}

// CommitBatch applies the operations inside one transaction. Transactions need a
// replica set or sharded cluster, which Atlas deployments provide.
func (r *MongoDBRepository) CommitBatch(ctx context.Context, ops []models.BatchOp) error {
	if len(ops) > MaxBatchSize {
		return fmt.Errorf("commit %d operations: %w", len(ops), models.ErrBatchTooLarge)
	}
	if len(ops) == 0 {
		return nil
	}

	writes, err := buildWriteModels(ops)
	if err != nil {
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongodb session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.collection().BulkWrite(sc, writes, options.BulkWrite().SetOrdered(true))
	})
	if err != nil {
		return fmt.Errorf("failed to commit product batch: %w", err)
	}
	return nil
}

func buildWriteModels(ops []models.BatchOp) ([]mongo.WriteModel, error) {
	writes := make([]mongo.WriteModel, 0, len(ops))
	for i, op := range ops {
		if op.ID.IsZero() {
			return nil, fmt.Errorf("batch operation %d has no id", i)
		}

		switch op.Kind {
		case models.BatchOpSet:
			product := op.Product
			product.ID = op.ID
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": op.ID}).
				SetReplacement(product).
				SetUpsert(true))
		case models.BatchOpDelete:
			writes = append(writes, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": op.ID}))
		default:
			return nil, fmt.Errorf("batch operation %d has unknown kind %q", i, op.Kind)
		}
	}
	return writes, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
