package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Template describes one calculator template in the catalog index.
type Template struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	FilePath string `yaml:"file"`
}

// Provider is the catalog capability consumed by the assignment service.
type Provider interface {
	TemplatesForCategory(category string) ([]Template, error)
	LoadConfig(filePath string) (map[string]any, error)
}

type index struct {
	Templates []Template `yaml:"templates"`
}

// Catalog resolves template indexes and config documents across an ordered
// list of search roots. The first root that contains the requested file wins.
type Catalog struct {
	searchRoots []string
}

// New builds a file-backed catalog over the given search roots.
func New(searchRoots []string) (*Catalog, error) {
	if len(searchRoots) == 0 {
		return nil, fmt.Errorf("at least one search root required")
	}
	return &Catalog{searchRoots: searchRoots}, nil
}

// TemplatesForCategory loads <root>/<category>/index.yaml and returns its
// templates ordered by id. Template file paths are returned relative to the
// category directory so LoadConfig can resolve them against any root.
func (c *Catalog) TemplatesForCategory(category string) ([]Template, error) {
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	for _, root := range c.searchRoots {
		indexPath := filepath.Join(root, category, "index.yaml")
		data, err := os.ReadFile(indexPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading template index")
		}

		var idx index
		if err := yaml.Unmarshal(data, &idx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing template index")
		}

		templates := make([]Template, 0, len(idx.Templates))
		for _, tpl := range idx.Templates {
			tpl.FilePath = filepath.Join(category, tpl.FilePath)
			templates = append(templates, tpl)
		}
		sort.SliceStable(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
		return templates, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeTemplateNotFound, "no template index found for category").
		WithDetails(map[string]string{"category": category})
}

// LoadConfig resolves filePath under each search root in order and parses the
// first match as YAML.
func (c *Catalog) LoadConfig(filePath string) (map[string]any, error) {
	if filePath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filePath is required")
	}

	for _, root := range c.searchRoots {
		full := filepath.Join(root, filePath)
		data, err := os.ReadFile(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading template config")
		}

		cfg := map[string]any{}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing template config")
		}
		return cfg, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeTemplateNotFound, "template config not found under any search root").
		WithDetails(map[string]string{"file_path": filePath})
}

// identityFields are remote-resource identity fields that must never be sent
// when instantiating a fresh calculator from a template.
var identityFields = []string{"id", "owner_id", "version"}

// Sanitize returns a copy of cfg with remote identity fields removed.
func Sanitize(cfg map[string]any) map[string]any {
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	for _, field := range identityFields {
		delete(out, field)
	}
	return out
}
