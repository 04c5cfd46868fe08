package folio

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-folio/internal/hydrate"
	"github.com/goliatone/go-folio/theme"
)

var legacyDocumentKeys = map[string]string{
	"sections":     "components",
	"owner_id":     "ownerId",
	"social_links": "socialLinks",
	"is_public":    "isPublic",
	"view_count":   "viewCount",
	"created_at":   "createdAt",
	"updated_at":   "updatedAt",
}

var legacyInstanceKeys = map[string]string{
	"section_type":   "sectionType",
	"variant_id":     "variantId",
	"is_active":      "isActive",
	"is_marketplace": "isMarketplace",
	"component_code": "componentCode",
	"marketplace_id": "marketplaceId",
}

var portfolioDecoder = hydrate.NewDecoder[Portfolio](
	hydrate.WithPreHook[Portfolio](hydrate.RenameKeys(legacyDocumentKeys)),
	hydrate.WithPreHook[Portfolio](hydrate.RenameNestedKeys("components", legacyInstanceKeys)),
	hydrate.WithPreHook[Portfolio](defaultThemeHook),
	hydrate.WithPostHook[Portfolio](normalizePortfolio),
)

// DecodePortfolio parses a stored document. Legacy snake_case keys are
// accepted, a missing theme becomes the default theme, and instance order is
// renumbered so active instances are contiguous.
func DecodePortfolio(data []byte) (Portfolio, error) {
	p, err := portfolioDecoder.DecodeBytes(peekContext(data), data)
	if err != nil {
		return Portfolio{}, fmt.Errorf("folio: %w", err)
	}
	return p, nil
}

// DecodePortfolioMap is DecodePortfolio for an already parsed payload.
func DecodePortfolioMap(payload map[string]any) (Portfolio, error) {
	ctx := hydrate.Context{}
	ctx.ID, _ = payload["id"].(string)
	ctx.Slug, _ = payload["slug"].(string)
	p, err := portfolioDecoder.Decode(ctx, payload)
	if err != nil {
		return Portfolio{}, fmt.Errorf("folio: %w", err)
	}
	return p, nil
}

// peekContext reads id and slug ahead of the full decode so errors name the
// document. Fields of the wrong type are left empty.
func peekContext(data []byte) hydrate.Context {
	var head struct {
		ID   json.RawMessage `json:"id"`
		Slug json.RawMessage `json:"slug"`
	}
	ctx := hydrate.Context{}
	if err := json.Unmarshal(data, &head); err != nil {
		return ctx
	}
	_ = json.Unmarshal(head.ID, &ctx.ID)
	_ = json.Unmarshal(head.Slug, &ctx.Slug)
	return ctx
}

// EncodePortfolio serialises p as plain JSON data.
func EncodePortfolio(p Portfolio) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("folio: encode portfolio %s: %w", p.ID, err)
	}
	return data, nil
}

func defaultThemeHook(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	if value, ok := payload["theme"]; ok && value != nil {
		return payload, nil
	}
	raw, err := json.Marshal(theme.Default())
	if err != nil {
		return nil, err
	}
	var encoded map[string]any
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	payload["theme"] = encoded
	return payload, nil
}

func normalizePortfolio(_ hydrate.Context, p *Portfolio) error {
	p.Theme = theme.Normalize(p.Theme)
	if p.Components == nil {
		p.Components = []Instance{}
	}
	for i := range p.Components {
		if p.Components[i].Props == nil {
			p.Components[i].Props = map[string]any{}
		}
		if p.Components[i].Styles == nil {
			p.Components[i].Styles = map[string]any{}
		}
	}
	p.SortByOrder()
	p.Renumber()
	return nil
}
