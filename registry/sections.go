package registry

import (
	"sort"

	"github.com/a-h/templ"
)

// Renderer keys shared by the built-in catalogue and YAML catalogues.
const (
	RendererHero         = "hero"
	RendererAbout        = "about"
	RendererCards        = "cards"
	RendererTimeline     = "timeline"
	RendererTags         = "tags"
	RendererTestimonials = "testimonials"
	RendererContact      = "contact"
	RendererNavbar       = "navbar"
	RendererFooter       = "footer"
	RendererGallery      = "gallery"
	RendererGeneric      = "generic"
)

func builtinRenderers() map[string]Renderer {
	return map[string]Renderer{
		RendererHero:         renderHero,
		RendererAbout:        renderAbout,
		RendererCards:        renderCards,
		RendererTimeline:     renderTimeline,
		RendererTags:         renderTags,
		RendererTestimonials: renderTestimonials,
		RendererContact:      renderContact,
		RendererNavbar:       renderNavbar,
		RendererFooter:       renderFooter,
		RendererGallery:      renderGallery,
		RendererGeneric:      renderGeneric,
	}
}

func renderHero(v View) templ.Component {
	return section(v, "folio-hero-"+v.String("layout"), func(m *markup) {
		m.image(v.String("avatar"), v.String("name"), "class", "folio-avatar")
		m.element("p", v.String("greeting"), "class", "folio-eyebrow")
		m.element("h1", v.String("name"))
		m.element("h2", v.String("title"))
		m.element("p", v.String("subtitle"), "class", "folio-lead")
		if v.String("ctaText") != "" {
			m.link(v.String("ctaLink"), v.String("ctaText"), "class", "folio-button")
		}
		if v.Bool("showSocial") {
			renderSocial(m, v.Record("social"))
		}
	})
}

func renderAbout(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.element("h2", v.String("heading"))
		m.image(v.String("image"), v.String("heading"))
		m.element("p", v.String("bio"))
		stats := v.Records("stats")
		if len(stats) == 0 {
			return
		}
		m.open("dl", "class", "folio-stats")
		for _, stat := range stats {
			m.element("dt", field(stat, "value"))
			m.element("dd", field(stat, "label"))
		}
		m.close("dl")
	})
}

func renderCards(v View) templ.Component {
	return section(v, "folio-cards-"+v.String("layout"), func(m *markup) {
		m.element("h2", v.String("heading"))
		m.open("div", "class", "folio-grid")
		for _, item := range v.Records("items") {
			m.open("article", "class", "folio-card")
			m.image(field(item, "image"), field(item, "title"))
			m.element("h3", field(item, "title"))
			m.element("p", field(item, "description"))
			if tags := stringList(item["tags"]); len(tags) > 0 {
				m.open("ul", "class", "folio-tags")
				for _, tag := range tags {
					m.element("li", tag)
				}
				m.close("ul")
			}
			m.link(field(item, "link"), "View project")
			m.close("article")
		}
		m.close("div")
	})
}

func renderTimeline(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.element("h2", v.String("heading"))
		m.open("ol", "class", "folio-timeline")
		for _, entry := range v.Records("items") {
			m.open("li")
			m.element("time", field(entry, "period"))
			m.element("h3", field(entry, "role"))
			m.element("p", field(entry, "organization"), "class", "folio-muted")
			m.element("p", field(entry, "description"))
			m.close("li")
		}
		m.close("ol")
	})
}

func renderTags(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.element("h2", v.String("heading"))
		m.open("ul", "class", "folio-tags")
		for _, skill := range v.Strings("skills") {
			m.element("li", skill)
		}
		for _, skill := range v.Records("levels") {
			m.open("li", "data-level", field(skill, "level"))
			m.text(field(skill, "name"))
			m.close("li")
		}
		m.close("ul")
	})
}

func renderTestimonials(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.element("h2", v.String("heading"))
		for _, quote := range v.Records("items") {
			m.open("figure", "class", "folio-quote")
			m.element("blockquote", field(quote, "quote"))
			m.element("figcaption", field(quote, "author"))
			m.close("figure")
		}
	})
}

func renderContact(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.element("h2", v.String("heading"))
		m.element("p", v.String("message"))
		if email := v.String("email"); email != "" {
			m.link("mailto:"+email, email, "class", "folio-button")
		}
		m.element("p", v.String("location"), "class", "folio-muted")
		renderSocial(m, v.Record("social"))
	})
}

func renderNavbar(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.open("nav")
		m.element("strong", v.String("brand"))
		m.open("ul")
		for _, link := range v.Records("links") {
			m.open("li")
			m.link(field(link, "href"), field(link, "label"))
			m.close("li")
		}
		m.close("ul")
		m.close("nav")
	})
}

func renderFooter(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.element("p", v.String("text"))
		if v.Bool("showSocial") {
			renderSocial(m, v.Record("social"))
		}
	})
}

func renderGallery(v View) templ.Component {
	return section(v, "", func(m *markup) {
		m.element("h2", v.String("heading"))
		m.open("div", "class", "folio-gallery")
		for _, img := range v.Records("images") {
			m.open("figure")
			m.image(field(img, "src"), field(img, "caption"))
			m.element("figcaption", field(img, "caption"))
			m.close("figure")
		}
		m.close("div")
	})
}

// renderGeneric prints every scalar prop. Custom sections and catalogue
// entries without a dedicated renderer use it.
func renderGeneric(v View) templ.Component {
	return section(v, "", func(m *markup) {
		keys := make([]string, 0, len(v.Props))
		for key := range v.Props {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		m.open("dl")
		for _, key := range keys {
			value := v.String(key)
			if value == "" {
				continue
			}
			m.element("dt", key)
			m.element("dd", value)
		}
		m.close("dl")
	})
}

func renderSocial(m *markup, social map[string]any) {
	if len(social) == 0 {
		return
	}
	networks := make([]string, 0, len(social))
	for network := range social {
		networks = append(networks, network)
	}
	sort.Strings(networks)
	m.open("ul", "class", "folio-social")
	for _, network := range networks {
		href := field(social, network)
		if href == "" {
			continue
		}
		m.open("li")
		m.link(href, network, "rel", "noopener")
		m.close("li")
	}
	m.close("ul")
}

func stringList(value any) []string {
	items, _ := value.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
