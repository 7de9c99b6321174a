package permissions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML catalog override:
//
//	permissions:
//	  - code: products.view
//	    label: View products
func LoadFile(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Permissions Catalog `yaml:"permissions"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(doc.Permissions) == 0 {
		return nil, fmt.Errorf("catalog %s: no permissions defined", path)
	}
	if err := doc.Permissions.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return doc.Permissions, nil
}
