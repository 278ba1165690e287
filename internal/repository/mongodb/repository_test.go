package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

func TestBuildWriteModels(t *testing.T) {
	product := models.NewProductFromStock(models.StockItem{Name: "Widget", Quantity: 2, Unit: "pcs"}, time.Now())
	stale := primitive.NewObjectID()

	writes, err := buildWriteModels([]models.BatchOp{models.DeleteOp(stale), models.SetOp(product)})
	require.NoError(t, err)
	require.Len(t, writes, 2)

	del, ok := writes[0].(*mongo.DeleteOneModel)
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": stale}, del.Filter)

	replace, ok := writes[1].(*mongo.ReplaceOneModel)
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": product.ID}, replace.Filter)
	require.NotNil(t, replace.Upsert)
	assert.True(t, *replace.Upsert)
	assert.Equal(t, product, replace.Replacement)
}

func TestBuildWriteModels_Invalid(t *testing.T) {
	_, err := buildWriteModels([]models.BatchOp{{Kind: models.BatchOpDelete}})
	assert.ErrorContains(t, err, "has no id")

	_, err = buildWriteModels([]models.BatchOp{{Kind: "upsert", ID: primitive.NewObjectID()}})
	assert.ErrorContains(t, err, "unknown kind")
}

func TestCommitBatch_RejectsOversizedBatch(t *testing.T) {
	repo := &MongoDBRepository{}
	ops := make([]models.BatchOp, MaxBatchSize+1)

	err := repo.CommitBatch(context.Background(), ops)

	assert.ErrorIs(t, err, models.ErrBatchTooLarge)
}

func TestCommitBatch_EmptyIsNoop(t *testing.T) {
	repo := &MongoDBRepository{}

	assert.NoError(t, repo.CommitBatch(context.Background(), nil))
	assert.Equal(t, MaxBatchSize, repo.MaxBatchSize())
}
