package reporting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imscloud/ims/internal/domain/models"
)

// MatchPolicy controls how a sale's item name is matched against inventory batches.
type MatchPolicy string

const (
	// MatchLoose accepts equal names and names contained in one another, ignoring case.
	MatchLoose MatchPolicy = "loose"
	// MatchExact accepts case-insensitive equal names only.
	MatchExact MatchPolicy = "exact"
)

// ParseMatchPolicy validates a match policy name. Empty selects MatchLoose.
func ParseMatchPolicy(value string) (MatchPolicy, error) {
	switch p := MatchPolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return MatchLoose, nil
	case MatchLoose, MatchExact:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported stock match policy %q", value)
	}
}

// ProjectStock replays sales against copies of the inventory batches and returns the
// batches that still hold stock. Each sale drains matching batches in input order; a
// sale larger than the matching stock empties it and the excess is dropped. The inputs
// are never modified.
func ProjectStock(inventory []models.InventoryRecord, sales []models.SaleRecord, policy MatchPolicy) models.StockProjection {
	batches := make([]models.StockBatch, len(inventory))
	names := make([]string, len(inventory))
	for i, record := range inventory {
		batches[i] = models.StockBatch{InventoryRecord: record.Clone(), Remaining: record.Quantity}
		names[i] = normalizeName(record.ItemName)
	}

	var warnings []models.StockWarning
	for _, sale := range sales {
		item := normalizeName(sale.ItemName)
		need := sale.Quantity
		if item == "" || !need.IsPositive() {
			continue
		}

		var matched []string
		seen := make(map[string]struct{})
		for i := range batches {
			if !namesMatch(names[i], item, policy) {
				continue
			}
			if _, ok := seen[names[i]]; !ok {
				seen[names[i]] = struct{}{}
				matched = append(matched, batches[i].ItemName)
			}
			if !need.IsPositive() || !batches[i].Remaining.IsPositive() {
				continue
			}
			need = drain(&batches[i], need)
		}

		if len(matched) > 1 {
			warnings = append(warnings, models.StockWarning{SaleItem: sale.ItemName, MatchedNames: matched})
		}
	}

	available := make([]models.StockBatch, 0, len(batches))
	for _, batch := range batches {
		if batch.Remaining.IsPositive() {
			available = append(available, batch)
		}
	}

	return models.StockProjection{Batches: available, Warnings: warnings}
}

// drain removes up to need from the batch and returns what is still owed.
func drain(batch *models.StockBatch, need decimal.Decimal) decimal.Decimal {
	if batch.Remaining.GreaterThanOrEqual(need) {
		batch.Remaining = batch.Remaining.Sub(need)
		return decimal.Zero
	}
	need = need.Sub(batch.Remaining)
	batch.Remaining = decimal.Zero
	return need
}

// namesMatch compares normalized names. A batch without a name matches no sale, even though an
// empty string is contained in every name.
func namesMatch(batchName, saleName string, policy MatchPolicy) bool {
	if batchName == "" {
		return false
	}
	if batchName == saleName {
		return true
	}
	if policy == MatchExact {
		return false
	}
	return strings.Contains(batchName, saleName) || strings.Contains(saleName, batchName)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
