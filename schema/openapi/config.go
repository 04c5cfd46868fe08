package openapi

import "strings"

const (
	defaultOpenAPIVersion = "3.1.0"
	defaultPropsPath      = "/portfolios/{portfolioId}/components/{instanceId}/props"
	defaultContentType    = "application/json"
)

type generatorConfig struct {
	openAPIVersion string
	info           openapiInfo
	operation      operationConfig
	contentType    string
	responses      map[string]string
	rootComponent  string
	variant        variantRef
}

type openapiInfo struct {
	Title       string
	Version     string
	Description string
}

type operationConfig struct {
	Path        string
	Method      string
	OperationID string
	Summary     string
}

// variantRef is published as the x-folio-variant operation extension so
// consumers can map a schema back to the catalogue entry.
type variantRef struct {
	Section string
	ID      string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		openAPIVersion: defaultOpenAPIVersion,
		info:           openapiInfo{Title: "Variant Props", Version: "1.0.0"},
		operation: operationConfig{
			Path:        defaultPropsPath,
			Method:      "put",
			OperationID: "updateComponentProps",
		},
		contentType: defaultContentType,
		responses: map[string]string{
			"204": "Props replaced",
			"422": "Props rejected",
		},
	}
}

// method returns the lower-cased HTTP method, put when unset.
func (o operationConfig) method() string {
	if m := strings.ToLower(strings.TrimSpace(o.Method)); m != "" {
		return m
	}
	return "put"
}

func (o operationConfig) id() string {
	if o.OperationID != "" {
		return o.OperationID
	}
	return o.method() + ":" + o.Path
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides the document version string.
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version != "" {
			cfg.openAPIVersion = version
		}
	}
}

// InfoOption configures optional info fields.
type InfoOption func(*openapiInfo)

// WithInfoDescription sets info.description.
func WithInfoDescription(description string) InfoOption {
	return func(info *openapiInfo) {
		info.Description = description
	}
}

// WithInfo sets the info block. Empty title or version keep the defaults.
func WithInfo(title, version string, opts ...InfoOption) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.info.Title = title
		}
		if version != "" {
			cfg.info.Version = version
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.info)
			}
		}
	}
}

// OperationOption configures optional operation metadata.
type OperationOption func(*operationConfig)

// WithOperationSummary sets the operation summary.
func WithOperationSummary(summary string) OperationOption {
	return func(operation *operationConfig) {
		operation.Summary = summary
	}
}

// WithOperation replaces the props update operation. A new path without an
// explicit operationId derives one from method and path.
func WithOperation(path, method, operationID string, opts ...OperationOption) GeneratorOption {
	return func(cfg *generatorConfig) {
		op := &cfg.operation
		if path != "" {
			op.Path = path
			op.OperationID = ""
		}
		if method != "" {
			op.Method = strings.ToLower(method)
		}
		if operationID != "" {
			op.OperationID = operationID
		}
		for _, opt := range opts {
			if opt != nil {
				opt(op)
			}
		}
	}
}

// WithContentType sets the request body media type.
func WithContentType(contentType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if contentType != "" {
			cfg.contentType = contentType
		}
	}
}

// WithResponse adds or replaces the response for status.
func WithResponse(status, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if status == "" {
			return
		}
		if cfg.responses == nil {
			cfg.responses = map[string]string{}
		}
		if description == "" {
			description = cfg.responses[status]
		}
		cfg.responses[status] = description
	}
}

// WithRootComponent publishes the props schema under components with name
// and references it from the request body.
func WithRootComponent(name string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.rootComponent = name
	}
}

// WithVariant tags the operation with the variant the schema belongs to.
func WithVariant(section, id string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.variant = variantRef{Section: section, ID: id}
	}
}
