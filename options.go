package folio

import (
	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/registry"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithRegistry renders static instances from reg instead of the built-in
// catalogue.
func WithRegistry(reg *registry.Registry) Option {
	return func(r *Renderer) {
		if reg != nil {
			r.resolver = NewResolver(reg)
		}
	}
}

// WithResolver shares an existing resolver.
func WithResolver(resolver *Resolver) Option {
	return func(r *Renderer) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// WithDynamicRuntime replaces the sandbox used for marketplace instances.
func WithDynamicRuntime(rt *dynamic.Runtime) Option {
	return func(r *Renderer) {
		if rt != nil {
			r.runtime = rt
		}
	}
}

// WithRenderLogger attaches a render logger.
func WithRenderLogger(logger RenderLogger) Option {
	return func(r *Renderer) {
		if logger == nil {
			r.logger = noopRenderLogger{}
			return
		}
		r.logger = logger
	}
}

// WithLang sets the html lang attribute of full pages.
func WithLang(lang string) Option {
	return func(r *Renderer) {
		if lang != "" {
			r.lang = lang
		}
	}
}

// WithStylesheet links an extra stylesheet from full pages.
func WithStylesheet(href string) Option {
	return func(r *Renderer) {
		if href != "" {
			r.stylesheets = append(r.stylesheets, href)
		}
	}
}
