package extractor

import (
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// el builds a visible captured element. selector is "tag.class1.class2#id".
func el(selector string, styles map[string]string) snapshot.CapturedElement {
	var id string
	if i := strings.IndexByte(selector, '#'); i >= 0 {
		selector, id = selector[:i], selector[i+1:]
	}
	parts := strings.Split(selector, ".")
	return snapshot.CapturedElement{
		Tag:     parts[0],
		ID:      id,
		Classes: parts[1:],
		Visible: true,
		Box:     snapshot.Rect{Width: 100, Height: 20},
		Styles:  styles,
	}
}

func withAttrs(e snapshot.CapturedElement, attrs map[string]string) snapshot.CapturedElement {
	e.Attributes = attrs
	return e
}

func hidden(e snapshot.CapturedElement) snapshot.CapturedElement {
	e.Visible = false
	return e
}

func divs(styles ...map[string]string) []snapshot.CapturedElement {
	out := make([]snapshot.CapturedElement, len(styles))
	for i, s := range styles {
		out[i] = el("div", s)
	}
	return out
}

func page(elements ...snapshot.CapturedElement) *snapshot.Page {
	return snapshot.New(&snapshot.Capture{URL: "https://example.test", Title: "Example", Elements: elements})
}

func pageWithCSS(css string, elements ...snapshot.CapturedElement) *snapshot.Page {
	return snapshot.New(&snapshot.Capture{
		URL:         "https://example.test",
		Elements:    elements,
		Stylesheets: []snapshot.CapturedStylesheet{{Href: "https://example.test/app.css", CSS: css}},
	})
}

func repeat(n int, e snapshot.CapturedElement) []snapshot.CapturedElement {
	out := make([]snapshot.CapturedElement, n)
	for i := range out {
		out[i] = e
	}
	return out
}

// allColors returns every color token in the section, semantic slots first.
func allColors(s *ColorSection) []ColorToken {
	var out []ColorToken
	for _, t := range s.Semantic {
		out = append(out, t)
	}
	return append(out, s.Palette...)
}
