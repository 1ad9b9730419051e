package reporting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imscloud/ims/internal/domain/models"
)

func stockItem(name string, qty int64) models.InventoryRecord {
	return models.InventoryRecord{ItemName: name, Quantity: dec(qty)}
}

func TestProjectStockDeductsSales(t *testing.T) {
	got := ProjectStock(
		[]models.InventoryRecord{stockItem("Chair", 10)},
		[]models.SaleRecord{sale("", "Chair", 4, 0, "")},
		MatchLoose,
	)
	require.Len(t, got.Batches, 1)
	require.Equal(t, "Chair", got.Batches[0].ItemName)
	require.True(t, got.Batches[0].Remaining.Equal(dec(6)))
	require.Empty(t, got.Warnings)
}

func TestProjectStockAbsorbsOversell(t *testing.T) {
	got := ProjectStock(
		[]models.InventoryRecord{stockItem("Chair", 3)},
		[]models.SaleRecord{sale("", "Chair", 5, 0, "")},
		MatchLoose,
	)
	require.Empty(t, got.Batches)
}

func TestProjectStockDrainsBatchesInOrder(t *testing.T) {
	inventory := []models.InventoryRecord{stockItem("Chair", 3), stockItem("chair ", 5), stockItem("Desk", 2)}
	got := ProjectStock(inventory, []models.SaleRecord{sale("", "CHAIR", 4, 0, "")}, MatchExact)

	require.Len(t, got.Batches, 2)
	require.Equal(t, "chair ", got.Batches[0].ItemName)
	require.True(t, got.Batches[0].Remaining.Equal(dec(4)))
	require.Equal(t, "Desk", got.Batches[1].ItemName)
}

func TestProjectStockDoesNotMutateInputs(t *testing.T) {
	inventory := []models.InventoryRecord{stockItem("Chair", 10)}
	inventory[0].CustomFields = map[string]string{"Color": "Black"}
	sales := []models.SaleRecord{sale("", "Chair", 4, 0, "")}

	got := ProjectStock(inventory, sales, MatchLoose)
	got.Batches[0].CustomFields["Color"] = "Red"

	require.True(t, inventory[0].Quantity.Equal(dec(10)))
	require.Equal(t, "Black", inventory[0].CustomFields["Color"])
	require.True(t, sales[0].Quantity.Equal(dec(4)))
}

func TestProjectStockNeverNegative(t *testing.T) {
	inventory := []models.InventoryRecord{stockItem("Chair", 2), stockItem("Desk", 1), stockItem("Lamp", 7)}
	sales := []models.SaleRecord{
		sale("", "Chair", 9, 0, ""),
		sale("", "Desk", 1, 0, ""),
		sale("", "Lamp", -3, 0, ""),
		sale("", "", 5, 0, ""),
		sale("", "Lamp", 2, 0, ""),
	}

	got := ProjectStock(inventory, sales, MatchLoose)
	require.Len(t, got.Batches, 1)
	require.Equal(t, "Lamp", got.Batches[0].ItemName)
	require.True(t, got.Batches[0].Remaining.Equal(dec(5)))
	for _, b := range got.Batches {
		require.False(t, b.Remaining.IsNegative())
	}
}

func TestProjectStockWarnsOnAmbiguousLooseMatch(t *testing.T) {
	inventory := []models.InventoryRecord{stockItem("Mouse", 5), stockItem("Wireless Mouse Pad", 5)}
	sales := []models.SaleRecord{sale("", "Mouse", 7, 0, "")}

	loose := ProjectStock(inventory, sales, MatchLoose)
	require.Len(t, loose.Warnings, 1)
	require.Equal(t, "Mouse", loose.Warnings[0].SaleItem)
	require.Equal(t, []string{"Mouse", "Wireless Mouse Pad"}, loose.Warnings[0].MatchedNames)
	require.Len(t, loose.Batches, 1)
	require.True(t, loose.Batches[0].Remaining.Equal(dec(3)))

	exact := ProjectStock(inventory, sales, MatchExact)
	require.Empty(t, exact.Warnings)
	require.Len(t, exact.Batches, 1)
	require.Equal(t, "Wireless Mouse Pad", exact.Batches[0].ItemName)
	require.True(t, exact.Batches[0].Remaining.Equal(dec(5)))
}

func TestProjectStockLooseMatchesLongerSaleName(t *testing.T) {
	got := ProjectStock(
		[]models.InventoryRecord{stockItem(`TV 55"`, 4)},
		[]models.SaleRecord{sale("", `Samsung TV 55"`, 1, 0, "")},
		MatchLoose,
	)
	require.Len(t, got.Batches, 1)
	require.True(t, got.Batches[0].Remaining.Equal(dec(3)))

	exact := ProjectStock(
		[]models.InventoryRecord{stockItem(`TV 55"`, 4)},
		[]models.SaleRecord{sale("", `Samsung TV 55"`, 1, 0, "")},
		MatchExact,
	)
	require.True(t, exact.Batches[0].Remaining.Equal(dec(4)))
}

func TestProjectStockIgnoresUnnamedBatches(t *testing.T) {
	got := ProjectStock(
		[]models.InventoryRecord{stockItem("", 4)},
		[]models.SaleRecord{sale("", "Chair", 2, 0, "")},
		MatchLoose,
	)
	require.Len(t, got.Batches, 1)
	require.True(t, got.Batches[0].Remaining.Equal(dec(4)))
}

func TestParseMatchPolicy(t *testing.T) {
	p, err := ParseMatchPolicy("")
	require.NoError(t, err)
	require.Equal(t, MatchLoose, p)

	p, err = ParseMatchPolicy("EXACT")
	require.NoError(t, err)
	require.Equal(t, MatchExact, p)

	_, err = ParseMatchPolicy("fuzzy")
	require.Error(t, err)
}
