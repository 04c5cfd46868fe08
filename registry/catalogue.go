package registry

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogueFile struct {
	Variants []Variant `yaml:"variants"`
}

// DecodeCatalogue reads YAML variant definitions. Numeric values are
// normalised to float64 so defaults compare equal to their JSON round trip.
func DecodeCatalogue(r io.Reader) ([]Variant, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file catalogueFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("registry: decode catalogue: %w", err)
	}
	for i := range file.Variants {
		v := &file.Variants[i]
		v.DefaultProps = normalizeMap(v.DefaultProps)
		v.DefaultStyles = normalizeMap(v.DefaultStyles)
	}
	return file.Variants, nil
}

// LoadCatalogue decodes YAML variants and registers them. It returns the
// number of variants registered before the first failure.
func (r *Registry) LoadCatalogue(src io.Reader) (int, error) {
	variants, err := DecodeCatalogue(src)
	if err != nil {
		return 0, err
	}
	for i, v := range variants {
		if err := r.Register(v); err != nil {
			return i, err
		}
	}
	return len(variants), nil
}

// LoadCatalogueFile is LoadCatalogue over a file path.
func (r *Registry) LoadCatalogueFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("registry: open catalogue: %w", err)
	}
	defer f.Close()
	return r.LoadCatalogue(f)
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint64:
		return float64(typed)
	case float32:
		return float64(typed)
	case map[string]any:
		return normalizeMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
