package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Каталог источников в yaml файле. json тоже читается, он является подмножеством yaml
type SourceFileStorage struct {
	path string
}

func NewSourceFileStorage(path string) *SourceFileStorage {
	return &SourceFileStorage{path: path}
}

type catalogFile struct {
	Sources []model.CatalogEntry `yaml:"sources"`
}

func (s *SourceFileStorage) Sources(_ context.Context) ([]model.CatalogEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	// Записи без ссылки бесполезны
	return lo.Filter(file.Sources, func(e model.CatalogEntry, _ int) bool {
		return strings.TrimSpace(e.Link) != ""
	}), nil
}
