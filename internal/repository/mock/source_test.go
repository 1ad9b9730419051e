package mock

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

func TestFetchRowsSeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mock.json")
	src := NewRowSource(path, nil)

	rows, err := src.FetchRows(context.Background(), models.CollectionInventory)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	_, err = os.Stat(path)
	require.NoError(t, err)

	inventory := fields.DecodeInventory(rows)
	require.Equal(t, "Samsung World", inventory[0].Vendor)
	require.Equal(t, "2026-01-20", inventory[0].DateKey())

	sales, err := src.FetchRows(context.Background(), models.CollectionSales)
	require.NoError(t, err)
	require.Len(t, sales, 3)

	expenses, err := src.FetchRows(context.Background(), models.CollectionExpenses)
	require.NoError(t, err)
	require.NotNil(t, expenses)
	require.Empty(t, expenses)
}

func TestFetchRowsReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sales":[{"item":"Desk","total":70}]}`), 0o600))

	src := NewRowSource(path, nil)
	rows, err := src.FetchRows(context.Background(), models.CollectionSales)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Desk", rows[0]["item"])

	rows, err = src.FetchRows(context.Background(), models.CollectionInventory)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFetchRowsRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sales": {"not": "an array"}}`), 0o600))

	_, err := NewRowSource(path, nil).FetchRows(context.Background(), models.CollectionSales)
	require.ErrorContains(t, err, "decode sales")
}
