package registry

import (
	"sync"

	"github.com/goliatone/go-folio/schema"
)

var (
	builtinOnce     sync.Once
	builtinRegistry *Registry
)

// Builtin returns the shared registry holding the built-in catalogue. Use
// Clone before registering additional variants.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtinRegistry = New().MustRegister(BuiltinVariants()...)
	})
	return builtinRegistry
}

var socialSchema = schema.Field{
	Type: schema.TypeObject,
	Fields: schema.Fields{
		"github":   {Type: schema.TypeURL, Label: "GitHub"},
		"linkedin": {Type: schema.TypeURL, Label: "LinkedIn"},
		"twitter":  {Type: schema.TypeURL, Label: "Twitter"},
	},
}

var projectItem = schema.Fields{
	"title":       {Type: schema.TypeText, Label: "Title"},
	"description": {Type: schema.TypeTextarea, Label: "Description"},
	"image":       {Type: schema.TypeImage, Label: "Image"},
	"link":        {Type: schema.TypeURL, Label: "Link"},
	"tags":        {Type: schema.TypeArray, Label: "Tags"},
}

var timelineItem = schema.Fields{
	"role":         {Type: schema.TypeText, Label: "Role"},
	"organization": {Type: schema.TypeText, Label: "Organization"},
	"period":       {Type: schema.TypeText, Label: "Period", Placeholder: "2021 - Present"},
	"description":  {Type: schema.TypeTextarea, Label: "Description"},
}

// BuiltinVariants returns fresh copies of the built-in catalogue definitions.
func BuiltinVariants() []Variant {
	heroSchema := schema.Fields{
		"name":       {Type: schema.TypeText, Label: "Name", Placeholder: "Jane Doe"},
		"title":      {Type: schema.TypeText, Label: "Title"},
		"subtitle":   {Type: schema.TypeTextarea, Label: "Subtitle"},
		"ctaText":    {Type: schema.TypeText, Label: "Button text"},
		"ctaLink":    {Type: schema.TypeURL, Label: "Button link"},
		"avatar":     {Type: schema.TypeImage, Label: "Avatar"},
		"showSocial": {Type: schema.TypeBoolean, Label: "Show social links"},
		"social":     socialSchema,
		"layout":     {Type: schema.TypeSelect, Label: "Layout", Options: []string{"centered", "split", "minimal"}},
	}
	heroProps := func(layout string) map[string]any {
		return map[string]any{
			"greeting":   "Hello, I'm",
			"name":       "Your Name",
			"title":      "Software Engineer",
			"subtitle":   "I build reliable products for the web.",
			"ctaText":    "View my work",
			"ctaLink":    "#projects",
			"avatar":     "",
			"showSocial": true,
			"social":     map[string]any{"github": "https://github.com/"},
			"layout":     layout,
		}
	}
	cardsSchema := schema.Fields{
		"heading": {Type: schema.TypeText, Label: "Heading"},
		"layout":  {Type: schema.TypeSelect, Label: "Layout", Options: []string{"grid", "list", "masonry"}},
		"items":   {Type: schema.TypeArray, Label: "Projects", ItemSchema: projectItem},
	}
	sampleProjects := func() []any {
		return []any{
			map[string]any{"title": "Project One", "description": "A short description of the project.", "image": "", "link": "https://example.com", "tags": []any{"Go", "SQL"}},
			map[string]any{"title": "Project Two", "description": "Another project worth showing.", "image": "", "link": "https://example.com", "tags": []any{"TypeScript"}},
		}
	}
	timelineSchema := schema.Fields{
		"heading": {Type: schema.TypeText, Label: "Heading"},
		"items":   {Type: schema.TypeArray, Label: "Entries", ItemSchema: timelineItem},
	}
	sampleTimeline := func() []any {
		return []any{
			map[string]any{"role": "Senior Engineer", "organization": "Acme", "period": "2021 - Present", "description": "Leading the platform team."},
			map[string]any{"role": "Engineer", "organization": "Initech", "period": "2018 - 2021", "description": "Built internal tooling."},
		}
	}

	return []Variant{
		{
			SectionType: SectionNavbar, ID: "navbar-simple", Name: "Simple Navbar",
			Description: "Brand on the left, links on the right.",
			Tags:        []string{"navigation", "minimal"}, Category: "navigation", Popular: true,
			DefaultProps: map[string]any{
				"brand": "Your Name",
				"links": []any{
					map[string]any{"label": "About", "href": "#about"},
					map[string]any{"label": "Projects", "href": "#projects"},
					map[string]any{"label": "Contact", "href": "#contact"},
				},
			},
			DefaultStyles: map[string]any{"paddingY": "xs", "paddingX": "md"},
			PropsSchema: schema.Fields{
				"brand": {Type: schema.TypeText, Label: "Brand"},
				"links": {Type: schema.TypeArray, Label: "Links", ItemSchema: schema.Fields{
					"label": {Type: schema.TypeText, Label: "Label"},
					"href":  {Type: schema.TypeURL, Label: "Target"},
				}},
			},
			RendererKey: RendererNavbar,
		},
		{
			SectionType: SectionHero, ID: "hero-centered", Name: "Centered Hero",
			Description: "Large centered introduction with a call to action.",
			Tags:        []string{"intro", "centered", "cta"}, Category: "header", Popular: true,
			DefaultProps:  heroProps("centered"),
			DefaultStyles: map[string]any{"paddingY": "xl", "textAlign": "center", "fontSize": "5xl"},
			PropsSchema:   heroSchema,
			RendererKey:   RendererHero,
		},
		{
			SectionType: SectionHero, ID: "hero-split", Name: "Split Hero",
			Description: "Text on one side and a portrait on the other.",
			Tags:        []string{"intro", "image", "split"}, Category: "header", Popular: true,
			DefaultProps:  heroProps("split"),
			DefaultStyles: map[string]any{"paddingY": "lg", "textAlign": "left", "fontSize": "4xl", "layout": "grid", "gap": "lg"},
			PropsSchema:   heroSchema,
			RendererKey:   RendererHero,
		},
		{
			SectionType: SectionHero, ID: "hero-minimal", Name: "Minimal Hero",
			Description: "A single line of text with generous whitespace.",
			Tags:        []string{"intro", "minimal", "typography"}, Category: "header",
			DefaultProps:  heroProps("minimal"),
			DefaultStyles: map[string]any{"paddingY": "lg", "textAlign": "left", "fontSize": "3xl"},
			PropsSchema:   heroSchema,
			RendererKey:   RendererHero,
		},
		{
			SectionType: SectionHero, ID: "hero-gradient", Name: "Gradient Hero",
			Description: "Bold hero with a gradient backdrop and dark text contrast.",
			Tags:        []string{"intro", "gradient", "bold"}, Category: "header", Premium: true,
			DefaultProps:  heroProps("centered"),
			DefaultStyles: map[string]any{"paddingY": "xl", "textAlign": "center", "fontSize": "6xl", "shadow": "lg"},
			PropsSchema:   heroSchema,
			RendererKey:   RendererHero,
		},
		{
			SectionType: SectionAbout, ID: "about-simple", Name: "Simple About",
			Description: "Heading and a short biography.",
			Tags:        []string{"bio", "text"}, Category: "content", Popular: true,
			DefaultProps: map[string]any{
				"heading": "About me",
				"bio":     "Write a few sentences about who you are, what you do and what you care about.",
				"image":   "",
			},
			DefaultStyles: map[string]any{"paddingY": "lg", "maxWidth": "md"},
			PropsSchema: schema.Fields{
				"heading": {Type: schema.TypeText, Label: "Heading"},
				"bio":     {Type: schema.TypeTextarea, Label: "Biography"},
				"image":   {Type: schema.TypeImage, Label: "Photo"},
			},
			RendererKey: RendererAbout,
		},
		{
			SectionType: SectionAbout, ID: "about-stats", Name: "About with Stats",
			Description: "Biography with highlighted numbers.",
			Tags:        []string{"bio", "stats", "numbers"}, Category: "content",
			DefaultProps: map[string]any{
				"heading": "About me",
				"bio":     "A short biography.",
				"image":   "",
				"stats": []any{
					map[string]any{"label": "Years of experience", "value": "8+"},
					map[string]any{"label": "Projects shipped", "value": "40"},
				},
			},
			DefaultStyles: map[string]any{"paddingY": "lg", "layout": "grid", "gap": "md"},
			PropsSchema: schema.Fields{
				"heading": {Type: schema.TypeText, Label: "Heading"},
				"bio":     {Type: schema.TypeTextarea, Label: "Biography"},
				"image":   {Type: schema.TypeImage, Label: "Photo"},
				"stats": {Type: schema.TypeArray, Label: "Stats", ItemSchema: schema.Fields{
					"label": {Type: schema.TypeText, Label: "Label"},
					"value": {Type: schema.TypeText, Label: "Value"},
				}},
			},
			RendererKey: RendererAbout,
		},
		{
			SectionType: SectionProjects, ID: "projects-grid", Name: "Project Grid",
			Description: "Cards in a responsive grid.",
			Tags:        []string{"work", "cards", "grid"}, Category: "showcase", Popular: true,
			DefaultProps:  map[string]any{"heading": "Projects", "layout": "grid", "items": sampleProjects()},
			DefaultStyles: map[string]any{"paddingY": "lg", "gap": "lg", "shadow": "md"},
			PropsSchema:   cardsSchema,
			RendererKey:   RendererCards,
		},
		{
			SectionType: SectionProjects, ID: "projects-list", Name: "Project List",
			Description: "One project per row with a longer description.",
			Tags:        []string{"work", "list"}, Category: "showcase",
			DefaultProps:  map[string]any{"heading": "Projects", "layout": "list", "items": sampleProjects()},
			DefaultStyles: map[string]any{"paddingY": "lg", "gap": "md", "shadow": "none"},
			PropsSchema:   cardsSchema,
			RendererKey:   RendererCards,
		},
		{
			SectionType: SectionProjects, ID: "projects-showcase", Name: "Featured Showcase",
			Description: "Large featured cards with images.",
			Tags:        []string{"work", "featured", "image"}, Category: "showcase", Premium: true,
			DefaultProps:  map[string]any{"heading": "Featured work", "layout": "masonry", "items": sampleProjects()},
			DefaultStyles: map[string]any{"paddingY": "xl", "gap": "xl", "shadow": "xl", "borderRadius": 16.0},
			PropsSchema:   cardsSchema,
			RendererKey:   RendererCards,
		},
		{
			SectionType: SectionSkills, ID: "skills-tags", Name: "Skill Tags",
			Description: "Skills as a cloud of tags.",
			Tags:        []string{"skills", "tags"}, Category: "content", Popular: true,
			DefaultProps: map[string]any{
				"heading": "Skills",
				"skills":  []any{"Go", "PostgreSQL", "Kubernetes", "TypeScript"},
			},
			DefaultStyles: map[string]any{"paddingY": "md", "gap": "sm"},
			PropsSchema: schema.Fields{
				"heading": {Type: schema.TypeText, Label: "Heading"},
				"skills":  {Type: schema.TypeArray, Label: "Skills"},
			},
			RendererKey: RendererTags,
		},
		{
			SectionType: SectionSkills, ID: "skills-levels", Name: "Skill Levels",
			Description: "Skills with a proficiency level.",
			Tags:        []string{"skills", "levels", "progress"}, Category: "content",
			DefaultProps: map[string]any{
				"heading": "Skills",
				"levels": []any{
					map[string]any{"name": "Go", "level": "expert"},
					map[string]any{"name": "React", "level": "intermediate"},
				},
			},
			DefaultStyles: map[string]any{"paddingY": "md"},
			PropsSchema: schema.Fields{
				"heading": {Type: schema.TypeText, Label: "Heading"},
				"levels": {Type: schema.TypeArray, Label: "Skills", ItemSchema: schema.Fields{
					"name":  {Type: schema.TypeText, Label: "Skill"},
					"level": {Type: schema.TypeSelect, Label: "Level", Options: []string{"beginner", "intermediate", "expert"}},
				}},
			},
			RendererKey: RendererTags,
		},
		{
			SectionType: SectionExperience, ID: "experience-list", Name: "Experience List",
			Description: "Roles in reverse chronological order.",
			Tags:        []string{"work", "career", "cv"}, Category: "content", Popular: true,
			DefaultProps:  map[string]any{"heading": "Experience", "items": sampleTimeline()},
			DefaultStyles: map[string]any{"paddingY": "lg"},
			PropsSchema:   timelineSchema,
			RendererKey:   RendererTimeline,
		},
		{
			SectionType: SectionTimeline, ID: "timeline-vertical", Name: "Vertical Timeline",
			Description: "Milestones along a vertical line.",
			Tags:        []string{"career", "milestones", "timeline"}, Category: "content",
			DefaultProps:  map[string]any{"heading": "Journey", "items": sampleTimeline()},
			DefaultStyles: map[string]any{"paddingY": "lg", "borderWidth": "medium"},
			PropsSchema:   timelineSchema,
			RendererKey:   RendererTimeline,
		},
		{
			SectionType: SectionTestimonials, ID: "testimonials-cards", Name: "Testimonial Cards",
			Description: "Quotes from people you worked with.",
			Tags:        []string{"social proof", "quotes"}, Category: "showcase",
			DefaultProps: map[string]any{
				"heading": "Kind words",
				"items": []any{
					map[string]any{"quote": "A pleasure to work with.", "author": "A. Colleague"},
				},
			},
			DefaultStyles: map[string]any{"paddingY": "lg", "shadow": "sm"},
			PropsSchema: schema.Fields{
				"heading": {Type: schema.TypeText, Label: "Heading"},
				"items": {Type: schema.TypeArray, Label: "Quotes", ItemSchema: schema.Fields{
					"quote":  {Type: schema.TypeTextarea, Label: "Quote"},
					"author": {Type: schema.TypeText, Label: "Author"},
				}},
			},
			RendererKey: RendererTestimonials,
		},
		{
			SectionType: SectionGallery, ID: "gallery-grid", Name: "Image Gallery",
			Description: "A grid of captioned images.",
			Tags:        []string{"images", "photos", "grid"}, Category: "showcase", Premium: true,
			DefaultProps:  map[string]any{"heading": "Gallery", "images": []any{}},
			DefaultStyles: map[string]any{"paddingY": "lg", "gap": "sm"},
			PropsSchema: schema.Fields{
				"heading": {Type: schema.TypeText, Label: "Heading"},
				"images": {Type: schema.TypeArray, Label: "Images", ItemSchema: schema.Fields{
					"src":     {Type: schema.TypeImage, Label: "Image"},
					"caption": {Type: schema.TypeText, Label: "Caption"},
				}},
			},
			RendererKey: RendererGallery,
		},
		{
			SectionType: SectionContact, ID: "contact-simple", Name: "Simple Contact",
			Description: "Email call to action with social links.",
			Tags:        []string{"email", "cta", "social"}, Category: "contact", Popular: true,
			DefaultProps: map[string]any{
				"heading":  "Get in touch",
				"message":  "I'm open to new opportunities.",
				"email":    "you@example.com",
				"location": "",
				"social":   map[string]any{},
			},
			DefaultStyles: map[string]any{"paddingY": "lg", "textAlign": "center"},
			PropsSchema: schema.Fields{
				"heading":  {Type: schema.TypeText, Label: "Heading"},
				"message":  {Type: schema.TypeTextarea, Label: "Message"},
				"email":    {Type: schema.TypeText, Label: "Email"},
				"location": {Type: schema.TypeText, Label: "Location"},
				"social":   socialSchema,
			},
			RendererKey: RendererContact,
		},
		{
			SectionType: SectionFooter, ID: "footer-simple", Name: "Simple Footer",
			Description: "Copyright line with optional social links.",
			Tags:        []string{"footer", "minimal"}, Category: "navigation", Popular: true,
			DefaultProps: map[string]any{
				"text":       "Built with go-folio.",
				"showSocial": false,
				"social":     map[string]any{},
			},
			DefaultStyles: map[string]any{"paddingY": "sm", "textAlign": "center", "fontSize": "sm"},
			PropsSchema: schema.Fields{
				"text":       {Type: schema.TypeText, Label: "Text"},
				"showSocial": {Type: schema.TypeBoolean, Label: "Show social links"},
				"social":     socialSchema,
			},
			RendererKey: RendererFooter,
		},
		{
			SectionType: SectionCustom, ID: "custom-text", Name: "Custom Text",
			Description: "Free-form heading and paragraph.",
			Tags:        []string{"custom", "text"}, Category: "content",
			DefaultProps:  map[string]any{"heading": "", "body": ""},
			DefaultStyles: map[string]any{"paddingY": "md"},
			RendererKey:   RendererGeneric,
		},
	}
}
