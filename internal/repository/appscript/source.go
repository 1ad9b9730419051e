package appscript

import (
	"context"
	"fmt"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
	client "github.com/imscloud/ims/pkg/clients/appscript"
)

var actions = map[models.Collection]string{
	models.CollectionInventory: "getInventory",
	models.CollectionSales:     "getSales",
	models.CollectionExpenses:  "getExpenses",
}

// RowSource serves collections through the Apps Script web app.
type RowSource struct {
	client client.Client
}

// NewRowSource wraps an Apps Script client.
func NewRowSource(c client.Client) *RowSource {
	return &RowSource{client: c}
}

// FetchRows calls the read action of collection.
func (s *RowSource) FetchRows(ctx context.Context, collection models.Collection) ([]fields.Row, error) {
	action, ok := actions[collection]
	if !ok {
		return nil, fmt.Errorf("no apps script action for collection %q", collection)
	}
	objects, err := s.client.Fetch(ctx, action)
	if err != nil {
		return nil, err
	}
	rows := make([]fields.Row, 0, len(objects))
	for _, obj := range objects {
		rows = append(rows, fields.Row(obj))
	}
	return rows, nil
}
