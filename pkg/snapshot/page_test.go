package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCapture = `{
  "url": "https://example.test/pricing",
  "title": "Pricing",
  "viewport": {"width": 1440, "height": 900},
  "elements": [
    {"tag": "HTML", "visible": true, "styles": {"background-color": "rgb(255, 255, 255)"}},
    {"tag": "button", "id": "buy", "classes": ["btn", "btn-primary"], "visible": true,
     "box": {"x": 10, "y": 20, "width": 120, "height": 40},
     "styles": {"background-color": " #3b82f6 ", "color": "#fff"}},
    {"tag": "a", "attributes": {"role": "button", "href": "/signup"}, "visible": true},
    {"tag": "link", "attributes": {"rel": "stylesheet", "href": "https://fonts.googleapis.com/css2?family=Inter"}, "visible": false}
  ],
  "stylesheets": [
    {"href": "https://example.test/app.css", "css": ":root { --primary: #3b82f6; --radius: 8px; } html { --bg: white; } @media (min-width: 768px) { .btn { padding: 8px 16px; } @media (hover: hover) { .btn:hover { color: red; } } }"},
    {"href": "https://cdn.example/vendor.css", "crossOrigin": true, "css": ".x { color: blue; }"}
  ],
  "customProperties": {":root": {"--radius": "6px", "--accent": "#f97316"}}
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid capture", data: sampleCapture},
		{name: "empty object", data: `{}`},
		{name: "invalid json", data: `{"elements": [`, wantErr: true},
		{name: "wrong type", data: `{"elements": {}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPage(t *testing.T) {
	p, err := Parse([]byte(sampleCapture))
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/pricing", p.URL())
	assert.Equal(t, "Pricing", p.Title())
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, []string{"stylesheet https://cdn.example/vendor.css: cross-origin rules are not readable"}, p.Warnings())

	visible := p.QueryAllVisible(Any())
	assert.Len(t, visible, 3)
	assert.Len(t, p.QueryAll(Any()), 4)
	assert.Len(t, p.QueryAll(nil), 4)

	buttons := p.QueryAllVisible(Select("[role=button], button"))
	require.Len(t, buttons, 2)

	ctx := p.ElementContext(buttons[0])
	assert.Equal(t, "button#buy.btn.btn-primary", ctx.Describe())
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 120, Height: 40}, ctx.BoundingBox)
	assert.Equal(t, "#3b82f6", p.ComputedStyle(buttons[0], "background-color"), "values are trimmed")
	assert.Equal(t, "", p.ComputedStyle(buttons[0], "box-shadow"))

	link := p.ElementContext(buttons[1])
	assert.Equal(t, "button", link.Role, "role falls back to the attribute")
	assert.True(t, link.IsButtonLike())

	root := p.ElementContext(visible[0])
	assert.Equal(t, "html", root.TagName, "tag names are lower-cased")

	assert.Equal(t, ElementContext{}, p.ElementContext(Element(99)))
	assert.Equal(t, "", p.ComputedStyle(Element(-1), "color"))
}

func TestPageRules(t *testing.T) {
	p, err := Parse([]byte(sampleCapture))
	require.NoError(t, err)

	var media []string
	var nested []Rule
	for _, r := range p.StylesheetRules() {
		if r.AtRule == "@media" {
			media = append(media, r.Prelude)
		}
		if r.SelectorText != "" && r.Media != "" {
			nested = append(nested, r)
		}
	}
	assert.Equal(t, []string{"(min-width: 768px)", "(hover: hover)"}, media)

	require.Len(t, nested, 2)
	assert.Equal(t, ".btn", nested[0].SelectorText)
	assert.Equal(t, "(min-width: 768px)", nested[0].Media)
	assert.Equal(t, "8px 16px", nested[0].Value("padding"))
	assert.Equal(t, ".btn:hover", nested[1].SelectorText)
	assert.Equal(t, "(min-width: 768px) and (hover: hover)", nested[1].Media)

	for _, r := range p.StylesheetRules() {
		assert.NotEqual(t, ".x", r.SelectorText, "cross-origin sheets are skipped")
	}
}

func TestPageCustomProperties(t *testing.T) {
	p, err := Parse([]byte(sampleCapture))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"--primary": "#3b82f6",
		"--radius":  "6px",
		"--accent":  "#f97316",
	}, p.CSSCustomProperties(":root"), "captured values override stylesheet declarations")
	assert.Equal(t, map[string]string{"--bg": "white"}, p.CSSCustomProperties("html"))
	assert.Nil(t, p.CSSCustomProperties("body"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCapture), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Pricing", p.Title())

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRuleValue(t *testing.T) {
	r := Rule{Declarations: []Declaration{
		{Property: "color", Value: "red"},
		{Property: "padding", Value: "4px"},
		{Property: "color", Value: "blue"},
	}}
	assert.Equal(t, "blue", r.Value("color"), "last declaration wins")
	assert.Equal(t, "", r.Value("margin"))
}

func findRule(rules []Rule, selector, media string) (Rule, bool) {
	for _, r := range rules {
		if r.SelectorText == selector && r.Media == media {
			return r, true
		}
	}
	return Rule{}, false
}

func pageWithSheet(css string) *Page {
	return New(&Capture{Stylesheets: []CapturedStylesheet{{Href: "https://example.test/app.css", CSS: css}}})
}

func TestPageModernStylesheets(t *testing.T) {
	tests := []struct {
		name     string
		css      string
		selector string
		media    string
		scope    string
		property string
		value    string
	}{
		{
			name:     "layer",
			css:      `@layer base, components; @layer components { .card { padding: 1rem; } }`,
			selector: ".card", scope: "@layer components", property: "padding", value: "1rem",
		},
		{
			name:     "media inside layer",
			css:      `@layer components { @media (min-width: 768px) { .card { padding: 2rem; } } }`,
			selector: ".card", media: "(min-width: 768px)", scope: "@layer components", property: "padding", value: "2rem",
		},
		{
			name:     "container",
			css:      `@container card (min-width: 400px) { .title { font-size: 2rem; } }`,
			selector: ".title", scope: "@container card (min-width: 400px)", property: "font-size", value: "2rem",
		},
		{
			name:     "nested layers",
			css:      `@layer a { @layer b { .x { color: red; } } }`,
			selector: ".x", scope: "@layer a @layer b", property: "color", value: "red",
		},
		{
			name:     "nesting with ampersand",
			css:      `.btn { color: #fff; &:hover { color: #eee; } }`,
			selector: ".btn:hover", property: "color", value: "#eee",
		},
		{
			name:     "nesting parent declarations",
			css:      `.btn { color: #fff; &:hover { color: #eee; } }`,
			selector: ".btn", property: "color", value: "#fff",
		},
		{
			name:     "nested descendant",
			css:      `.nav, .menu { .item { gap: 4px; } }`,
			selector: ".nav .item, .menu .item", property: "gap", value: "4px",
		},
		{
			name:     "nested media",
			css:      `.btn { color: #fff; @media (min-width: 768px) { padding: 8px; } }`,
			selector: ".btn", media: "(min-width: 768px)", property: "padding", value: "8px",
		},
		{
			name:     "comments and strings",
			css:      `/* { */ @layer x { .q::before { content: "}"; color: red; } }`,
			selector: ".q::before", scope: "@layer x", property: "color", value: "red",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pageWithSheet(tt.css)
			assert.Empty(t, p.Warnings())

			r, ok := findRule(p.StylesheetRules(), tt.selector, tt.media)
			require.True(t, ok, "rule %q not found in %+v", tt.selector, p.StylesheetRules())
			assert.Equal(t, tt.scope, r.Scope)
			assert.Equal(t, tt.value, r.Value(tt.property))
		})
	}
}

func TestPageLayeredSheetKeepsEverything(t *testing.T) {
	p := pageWithSheet(`
@layer theme { :root, :host { --primary: #3b82f6; } }
@layer components { .card { padding: 1rem; } }
@media (min-width: 768px) { .a { color: red; } }
@media (min-width: 1024px) { .b { color: red; } }
.btn:hover { background-color: #2563eb; }
@font-face { font-family: "Brand"; src: url(/brand.woff2); }
`)
	assert.Empty(t, p.Warnings())

	var media, atRules []string
	for _, r := range p.StylesheetRules() {
		switch r.AtRule {
		case "@media":
			media = append(media, r.Prelude)
		case "":
		default:
			atRules = append(atRules, r.AtRule)
		}
	}
	assert.Equal(t, []string{"(min-width: 768px)", "(min-width: 1024px)"}, media)
	assert.Equal(t, []string{"@layer", "@layer", "@font-face"}, atRules)

	hover, ok := findRule(p.StylesheetRules(), ".btn:hover", "")
	require.True(t, ok)
	assert.Equal(t, "#2563eb", hover.Value("background-color"))

	assert.Equal(t, map[string]string{"--primary": "#3b82f6"}, p.CSSCustomProperties(":root"))
}

func TestPageSkipsOnlyUnreadableBlocks(t *testing.T) {
	p := pageWithSheet(`
.before { color: red; }
@starting-style { .x { opacity: 0; } }
.after { color: green; }
`)
	require.Len(t, p.Warnings(), 1)
	assert.Contains(t, p.Warnings()[0], `skipped block "@starting-style"`)

	_, ok := findRule(p.StylesheetRules(), ".before", "")
	assert.True(t, ok)
	after, ok := findRule(p.StylesheetRules(), ".after", "")
	require.True(t, ok)
	assert.Equal(t, "green", after.Value("color"))
}

func TestSplitBlocks(t *testing.T) {
	got := splitBlocks(`@import "a.css"; .a { b: c; .d { e: f } } @layer x { } /* gone */ .tail`)
	assert.Equal(t, []block{
		{prelude: `@import "a.css"`},
		{prelude: ".a", body: " b: c; .d { e: f } ", hasBody: true},
		{prelude: "@layer x", body: " ", hasBody: true},
		{prelude: ".tail"},
	}, got)
}

func TestSplitAtRule(t *testing.T) {
	tests := []struct {
		in, name, prelude string
	}{
		{"@media (min-width: 768px)", "@media", "(min-width: 768px)"},
		{"@MEDIA(min-width: 1px)", "@media", "(min-width: 1px)"},
		{"@layer\ncomponents", "@layer", "components"},
		{"@layer", "@layer", ""},
		{".btn", "", ".btn"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, prelude := splitAtRule(tt.in)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.prelude, prelude)
		})
	}
}
