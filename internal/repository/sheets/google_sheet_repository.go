package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/imscloud/ims/internal/config"
	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

// Ranges maps each collection to the sheet range holding it. The first row of every
// range is the header.
var Ranges = map[models.Collection]string{
	models.CollectionInventory: "Inventory!A:Z",
	models.CollectionSales:     "Sales!A:Z",
	models.CollectionExpenses:  "Expenses!A:Z",
}

// Reader fetches a rectangular range of cell values.
type Reader interface {
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository implements Reader using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a read-only Google Sheets client.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	r.logger.Debug("range read", zap.String("range", sheetRange), zap.Int("rows", len(resp.Values)))
	return resp.Values, nil
}

// RowSource serves collections from spreadsheet tabs.
type RowSource struct {
	reader Reader
}

// NewRowSource wraps a range reader.
func NewRowSource(reader Reader) *RowSource {
	return &RowSource{reader: reader}
}

// FetchRows reads the tab of collection and keys every data row by the header row.
func (s *RowSource) FetchRows(ctx context.Context, collection models.Collection) ([]fields.Row, error) {
	sheetRange, ok := Ranges[collection]
	if !ok {
		return nil, fmt.Errorf("no sheet range for collection %q", collection)
	}
	values, err := s.reader.ReadRange(ctx, sheetRange)
	if err != nil {
		return nil, err
	}
	return RowsFromValues(values), nil
}

// RowsFromValues maps cell values to rows keyed by the trimmed header of their column.
// Columns without a header and rows without any non-blank cell are skipped.
func RowsFromValues(values [][]interface{}) []fields.Row {
	if len(values) < 2 {
		return []fields.Row{}
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(fields.FormatValue(cell))
	}

	rows := make([]fields.Row, 0, len(values)-1)
	for _, line := range values[1:] {
		row := make(fields.Row, len(header))
		filled := false
		for i, cell := range line {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
			if strings.TrimSpace(fields.FormatValue(cell)) != "" {
				filled = true
			}
		}
		if filled {
			rows = append(rows, row)
		}
	}
	return rows
}
