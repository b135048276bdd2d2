package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/JaimeStill/label-manager/internal/products"
)

func init() {
	registerSeeder(&CatalogueSeeder{})
}

// CatalogueSeedData represents the JSON structure for catalogue seed files.
type CatalogueSeedData struct {
	Products []products.SaveCommand `json:"products"`
}

// CatalogueSeeder implements Seeder for the product catalogue.
// It loads seed data from an embedded file or an external file path.
type CatalogueSeeder struct {
	file string
}

func (s *CatalogueSeeder) Name() string {
	return "catalogue"
}

func (s *CatalogueSeeder) Description() string {
	return "Seeds master and child products"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *CatalogueSeeder) SetFile(path string) {
	s.file = path
}

// Seed upserts every product, so repeated runs converge on the seed file.
func (s *CatalogueSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, cmd := range data.Products {
		if _, err := products.Upsert(ctx, tx, cmd); err != nil {
			return fmt.Errorf("save product %s: %w", cmd.SKU, err)
		}
	}

	return nil
}

func (s *CatalogueSeeder) loadSeedData() (*CatalogueSeedData, error) {
	var content []byte
	var err error

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/catalogue.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data CatalogueSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	return &data, nil
}
