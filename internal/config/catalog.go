package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"claudechat/pkg/chattypes"
)

//go:embed models.yaml
var catalogYAML []byte

type catalogFile struct {
	Catalog []chattypes.CatalogProvider `yaml:"catalog"`
}

var (
	catalogOnce sync.Once
	catalog     []chattypes.CatalogProvider
	catalogErr  error
)

func loadCatalog() ([]chattypes.CatalogProvider, error) {
	catalogOnce.Do(func() {
		var file catalogFile
		if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
			catalogErr = fmt.Errorf("failed to parse embedded model catalog: %w", err)
			return
		}
		catalog = file.Catalog
	})
	return catalog, catalogErr
}

// Catalog returns the embedded model catalog grouped by provider.
func Catalog() ([]chattypes.CatalogProvider, error) {
	return loadCatalog()
}

// SupportedModels returns the identifiers of all non-deprecated catalog models.
func SupportedModels() []string {
	providers, err := loadCatalog()
	if err != nil {
		return nil
	}

	var names []string
	for _, provider := range providers {
		for _, model := range provider.Models {
			if model.Deprecated {
				continue
			}
			names = append(names, model.Name)
		}
	}
	return names
}

// LookupModel finds a catalog entry by model identifier and returns the entry
// with its provider name.
func LookupModel(modelID string) (chattypes.CatalogEntry, string, error) {
	providers, err := loadCatalog()
	if err != nil {
		return chattypes.CatalogEntry{}, "", err
	}

	for _, provider := range providers {
		for _, model := range provider.Models {
			if model.Name == modelID {
				return model, provider.Provider, nil
			}
		}
	}

	return chattypes.CatalogEntry{}, "", fmt.Errorf("model '%s' not found in catalog", modelID)
}

// ProviderForModel returns the provider name that serves the given model.
func ProviderForModel(modelID string) (string, error) {
	_, provider, err := LookupModel(modelID)
	return provider, err
}
