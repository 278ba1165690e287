package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

type fakeSheets struct {
	sheetRange string
	rows       [][]interface{}
	err        error
}

func (f *fakeSheets) ReplaceRange(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.sheetRange = sheetRange
	f.rows = rows
	return f.err
}

func TestPublishStockSnapshot(t *testing.T) {
	sheets := &fakeSheets{}
	svc := NewService(sheets, "Stock!A2:F", nil)
	syncedAt := time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

	err := svc.PublishStockSnapshot(context.Background(), syncedAt, []models.StockItem{
		{Name: "Widget", Quantity: 10, Unit: "pcs", Rate: 2.5, Amount: 25},
		{Name: "Bolt", Quantity: 0, Unit: "Nos", Rate: 50},
	})

	require.NoError(t, err)
	assert.Equal(t, "Stock!A2:F", sheets.sheetRange)
	require.Len(t, sheets.rows, 2)
	assert.Equal(t, []interface{}{"Widget", 10.0, "pcs", 2.5, 25.0, "2026-10-15 14:30:00"}, sheets.rows[0])
	assert.Equal(t, "Bolt", sheets.rows[1][0])
}

func TestPublishStockSnapshot_EmptyClearsRange(t *testing.T) {
	sheets := &fakeSheets{}
	svc := NewService(sheets, "Stock!A2:F", nil)

	require.NoError(t, svc.PublishStockSnapshot(context.Background(), time.Now(), nil))
	assert.Empty(t, sheets.rows)
	assert.Equal(t, "Stock!A2:F", sheets.sheetRange)
}

func TestPublishStockSnapshot_Error(t *testing.T) {
	sheets := &fakeSheets{err: errors.New("quota exceeded")}
	svc := NewService(sheets, "Stock!A2:F", nil)

	err := svc.PublishStockSnapshot(context.Background(), time.Now(), []models.StockItem{{Name: "x"}})

	assert.ErrorContains(t, err, "quota exceeded")
}
