package subscription

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile mirrors the YAML layout: a top-level "plans" map keyed by plan
// name, each entry carrying limits and features.
type catalogFile struct {
	Plans map[Plan]PlanSpec `yaml:"plans"`
}

// LoadCatalog reads a catalog from YAML and validates it with NewCatalog.
// The expected shape:
//
//	plans:
//	  free:
//	    limits: {recipes: 3, orders: 25, customers: 25, products: 10}
//	  pro:
//	    limits: {recipes: 100, orders: 2000, customers: 2000, products: 500}
//	    features: [ai_features, advanced_analytics]
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlanConfiguration, err)
	}
	return NewCatalog(file.Plans)
}

// LoadCatalogFile loads a catalog from a YAML file on disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlanConfiguration, err)
	}
	defer f.Close()
	return LoadCatalog(f)
}
