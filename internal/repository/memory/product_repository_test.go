package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

func testTime() time.Time {
	return time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
}

func TestProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(0)
	assert.Equal(t, DefaultMaxBatchSize, repo.MaxBatchSize())

	id, err := repo.Add(ctx, models.Product{Name: "Widget", Quantity: 3})
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)

	got.Description = "blue"
	require.NoError(t, repo.Update(ctx, id, got))

	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "blue", got.Description)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestProductRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(0)
	missing := primitive.NewObjectID()

	assert.ErrorIs(t, repo.Update(ctx, missing, models.Product{}), models.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, missing), models.ErrProductNotFound)
}

func TestProductRepository_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(0)
	product := models.Product{ID: primitive.NewObjectID(), Name: "A"}

	_, err := repo.Add(ctx, product)
	require.NoError(t, err)
	_, err = repo.Add(ctx, product)
	assert.Error(t, err)
}

func TestProductRepository_CommitBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(3)

	first := models.NewProductFromStock(models.StockItem{Name: "first"}, testTime())
	second := models.NewProductFromStock(models.StockItem{Name: "second"}, testTime())
	require.NoError(t, repo.CommitBatch(ctx, []models.BatchOp{models.SetOp(first), models.SetOp(second)}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)

	require.NoError(t, repo.CommitBatch(ctx, []models.BatchOp{models.DeleteOp(first.ID)}))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestProductRepository_CommitBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(2)
	product := models.NewProductFromStock(models.StockItem{Name: "kept"}, testTime())
	require.NoError(t, repo.CommitBatch(ctx, []models.BatchOp{models.SetOp(product)}))

	tooLarge := []models.BatchOp{
		models.DeleteOp(product.ID),
		models.DeleteOp(primitive.NewObjectID()),
		models.DeleteOp(primitive.NewObjectID()),
	}
	assert.ErrorIs(t, repo.CommitBatch(ctx, tooLarge), models.ErrBatchTooLarge)

	invalid := []models.BatchOp{models.DeleteOp(product.ID), {Kind: models.BatchOpSet}}
	assert.Error(t, repo.CommitBatch(ctx, invalid))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewProductRepository(0)

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.CommitBatch(ctx, nil), context.Canceled)
}
