// Package mock serves collections from a local JSON file, for demos and trial accounts.
package mock

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

//go:embed demo.json
var demoData []byte

// DemoData returns a copy of the bundled demo data set.
func DemoData() []byte {
	return bytes.Clone(demoData)
}

// RowSource reads collections from a JSON document holding one array per collection.
type RowSource struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewRowSource returns a source backed by path. The file is seeded with the demo data
// set on first use when it does not exist.
func NewRowSource(path string, logger *zap.Logger) *RowSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RowSource{path: path, logger: logger}
}

// FetchRows returns the rows stored under collection. A missing array is empty.
func (s *RowSource) FetchRows(ctx context.Context, collection models.Collection) ([]fields.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	raw, ok := doc[string(collection)]
	if !ok {
		return []fields.Row{}, nil
	}
	var rows []fields.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s from %s: %w", collection, s.path, err)
	}
	if rows == nil {
		rows = []fields.Row{}
	}
	return rows, nil
}

func (s *RowSource) load() (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		content, err = s.seed()
	}
	if err != nil {
		return nil, fmt.Errorf("read mock data %s: %w", s.path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse mock data %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *RowSource) seed() ([]byte, error) {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(s.path, demoData, 0o644); err != nil {
		return nil, err
	}
	s.logger.Info("mock data file seeded", zap.String("path", s.path))
	return DemoData(), nil
}
