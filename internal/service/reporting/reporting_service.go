package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stocksync/internal/domain/models"
	repo "github.com/mamadbah2/stocksync/internal/repository/sheets"
)

const timestampLayout = "2006-01-02 15:04:05"

// Service mirrors the synced stock onto a spreadsheet for the back office.
type Service struct {
	repo       repo.Repository
	stockRange string
	logger     *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repository repo.Repository, stockRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, stockRange: stockRange, logger: logger}
}

// PublishStockSnapshot overwrites the stock range with one row per item.
func (s *Service) PublishStockSnapshot(ctx context.Context, syncedAt time.Time, items []models.StockItem) error {
	rows := make([][]interface{}, 0, len(items))
	stamp := syncedAt.Format(timestampLayout)

	for _, item := range items {
		rows = append(rows, []interface{}{
			item.Name,
			item.Quantity,
			item.Unit,
			item.Rate,
			item.Amount,
			stamp,
		})
	}

	if err := s.repo.ReplaceRange(ctx, s.stockRange, rows); err != nil {
		return fmt.Errorf("publish stock snapshot: %w", err)
	}

	s.logger.Info("stock snapshot published", zap.String("range", s.stockRange), zap.Int("rows", len(rows)))
	return nil
}
