package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aymerick/douceur/css"
)

// Page is a Snapshot backed by a Capture. All parsing happens in New, after
// which a Page is immutable and safe for concurrent use.
type Page struct {
	url        string
	title      string
	capturedAt time.Time
	elements   []CapturedElement
	contexts   []ElementContext
	rules      []Rule
	custom     map[string]map[string]string
	warnings   []string
}

var _ Snapshot = (*Page)(nil)

// Load reads a capture document from disk.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a capture document.
func Parse(data []byte) (*Page, error) {
	var c Capture
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse capture: %w", err)
	}
	return New(&c), nil
}

// New builds a Page from an in-memory capture. Stylesheets that are marked
// cross-origin or fail to parse are skipped and reported through Warnings.
func New(c *Capture) *Page {
	p := &Page{
		url:        c.URL,
		title:      c.Title,
		capturedAt: c.CapturedAt,
		elements:   c.Elements,
		contexts:   make([]ElementContext, len(c.Elements)),
		custom:     make(map[string]map[string]string),
	}

	for i, el := range c.Elements {
		attrs := el.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		role := el.Role
		if role == "" {
			role = attrs["role"]
		}
		p.contexts[i] = ElementContext{
			TagName:     strings.ToLower(el.Tag),
			Classes:     el.Classes,
			ID:          el.ID,
			Role:        strings.ToLower(role),
			IsVisible:   el.Visible,
			BoundingBox: el.Box,
			Attributes:  attrs,
		}
	}

	for i, sheet := range c.Stylesheets {
		name := sheet.Href
		if name == "" {
			name = fmt.Sprintf("inline #%d", i+1)
		}
		if sheet.CrossOrigin {
			p.warnings = append(p.warnings, fmt.Sprintf("stylesheet %s: cross-origin rules are not readable", name))
			continue
		}
		p.rules = p.appendSheet(p.rules, name, sheet.CSS, "", "")
	}

	for _, scope := range []string{":root", "html"} {
		props := make(map[string]string)
		for _, r := range p.rules {
			if r.AtRule != "" || r.Media != "" || !selectorListContains(r.SelectorText, scope) {
				continue
			}
			for _, d := range r.Declarations {
				if strings.HasPrefix(d.Property, "--") {
					props[d.Property] = d.Value
				}
			}
		}
		for name, value := range c.CustomProperties[scope] {
			props[name] = value
		}
		p.custom[scope] = props
	}

	return p
}

func flattenRules(out []Rule, rules []*css.Rule, media, scope string) []Rule {
	for _, r := range rules {
		decls := declarations(r.Declarations)

		if r.Kind == css.AtRule {
			name := strings.ToLower(r.Name)
			prelude := strings.TrimSpace(r.Prelude)
			out = append(out, Rule{
				AtRule:       name,
				Prelude:      prelude,
				Declarations: decls,
				Media:        media,
				Scope:        scope,
			})

			nestedMedia, nestedScope := media, scope
			if name == "@media" {
				nestedMedia = joinMedia(media, prelude)
			} else if len(r.Rules) > 0 {
				nestedScope = joinScope(scope, name, prelude)
			}
			out = flattenRules(out, r.Rules, nestedMedia, nestedScope)
			continue
		}

		selectorText := strings.Join(r.Selectors, ", ")
		if selectorText == "" {
			selectorText = strings.TrimSpace(r.Prelude)
		}
		out = append(out, Rule{
			SelectorText: selectorText,
			Declarations: decls,
			Media:        media,
			Scope:        scope,
		})
	}
	return out
}

func declarations(in []*css.Declaration) []Declaration {
	decls := make([]Declaration, 0, len(in))
	for _, d := range in {
		decls = append(decls, Declaration{
			Property:  strings.TrimSpace(d.Property),
			Value:     strings.TrimSpace(d.Value),
			Important: d.Important,
		})
	}
	return decls
}

func joinMedia(outer, inner string) string {
	if outer == "" {
		return inner
	}
	return outer + " and " + inner
}

func selectorListContains(selectorText, selector string) bool {
	for _, s := range SplitSelectorList(selectorText) {
		if s == selector {
			return true
		}
	}
	return false
}

// URL returns the address the page was captured from.
func (p *Page) URL() string { return p.url }

// Title returns the document title.
func (p *Page) Title() string { return p.title }

// CapturedAt returns the capture timestamp, zero when unknown.
func (p *Page) CapturedAt() time.Time { return p.capturedAt }

// Warnings lists data sources that were skipped while building the page.
func (p *Page) Warnings() []string { return p.warnings }

// Len returns the number of captured elements.
func (p *Page) Len() int { return len(p.elements) }

// QueryAllVisible implements Snapshot.
func (p *Page) QueryAllVisible(match Matcher) []Element {
	return p.query(match, true)
}

// QueryAll implements Snapshot.
func (p *Page) QueryAll(match Matcher) []Element {
	return p.query(match, false)
}

func (p *Page) query(match Matcher, visibleOnly bool) []Element {
	if match == nil {
		match = Any()
	}
	var out []Element
	for i, ctx := range p.contexts {
		if visibleOnly && !ctx.IsVisible {
			continue
		}
		if match(ctx) {
			out = append(out, Element(i))
		}
	}
	return out
}

// ComputedStyle implements Snapshot.
func (p *Page) ComputedStyle(el Element, property string) string {
	if int(el) < 0 || int(el) >= len(p.elements) {
		return ""
	}
	return strings.TrimSpace(p.elements[el].Styles[property])
}

// ElementContext implements Snapshot.
func (p *Page) ElementContext(el Element) ElementContext {
	if int(el) < 0 || int(el) >= len(p.contexts) {
		return ElementContext{}
	}
	return p.contexts[el]
}

// StylesheetRules implements Snapshot.
func (p *Page) StylesheetRules() []Rule {
	return p.rules
}

// CSSCustomProperties implements Snapshot. The returned map must not be modified.
func (p *Page) CSSCustomProperties(scope string) map[string]string {
	return p.custom[scope]
}
