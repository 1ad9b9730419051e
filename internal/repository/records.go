// Package repository adapts raw record sources to the decoded collections used by the
// reporting service.
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

// RowSource returns the raw rows of one collection.
type RowSource interface {
	FetchRows(ctx context.Context, collection models.Collection) ([]fields.Row, error)
}

// Invalidator drops cached rows so the next fetch reaches the backing source.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Store decodes rows from a RowSource into typed records.
type Store struct {
	rows   RowSource
	logger *zap.Logger
}

// NewStore wraps a row source.
func NewStore(rows RowSource, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{rows: rows, logger: logger}
}

// FetchInventory returns every inventory record.
func (s *Store) FetchInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	rows, err := s.fetch(ctx, models.CollectionInventory)
	if err != nil {
		return nil, err
	}
	return fields.DecodeInventory(rows), nil
}

// FetchSales returns every sale record.
func (s *Store) FetchSales(ctx context.Context) ([]models.SaleRecord, error) {
	rows, err := s.fetch(ctx, models.CollectionSales)
	if err != nil {
		return nil, err
	}
	return fields.DecodeSales(rows), nil
}

// FetchExpenses returns every expense record.
func (s *Store) FetchExpenses(ctx context.Context) ([]models.ExpenseRecord, error) {
	rows, err := s.fetch(ctx, models.CollectionExpenses)
	if err != nil {
		return nil, err
	}
	return fields.DecodeExpenses(rows), nil
}

// Invalidate clears cached rows when the row source supports it.
func (s *Store) Invalidate(ctx context.Context) error {
	inv, ok := s.rows.(Invalidator)
	if !ok {
		return nil
	}
	return inv.Invalidate(ctx)
}

func (s *Store) fetch(ctx context.Context, collection models.Collection) ([]fields.Row, error) {
	rows, err := s.rows.FetchRows(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", collection, err)
	}
	s.logger.Debug("rows loaded", zap.String("collection", string(collection)), zap.Int("count", len(rows)))
	return rows, nil
}
