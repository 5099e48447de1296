// Package snapshot defines the read-only view of a rendered page that the
// extractors consume, and a file-backed implementation of it.
//
// A browser automation tool captures the page (elements with their computed
// styles, raw stylesheet text and root custom properties) into a JSON document;
// Load turns that document into a Page. Any other engine can back the Snapshot
// interface directly.
package snapshot

import "strings"

// Element is an opaque handle to one element of the snapshot.
type Element int

// Rect is an element's bounding box in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ElementContext describes an element independently of its styles.
type ElementContext struct {
	TagName     string
	Classes     []string
	ID          string
	Role        string
	IsVisible   bool
	BoundingBox Rect
	Attributes  map[string]string
}

// Attr returns the named attribute, or "" when it is absent.
func (c ElementContext) Attr(name string) string {
	return c.Attributes[name]
}

// ClassName returns the class list joined by spaces, as in the class attribute.
func (c ElementContext) ClassName() string {
	return strings.Join(c.Classes, " ")
}

// HasClassContaining reports whether any class contains substr (case-insensitive).
func (c ElementContext) HasClassContaining(substr string) bool {
	substr = strings.ToLower(substr)
	for _, class := range c.Classes {
		if strings.Contains(strings.ToLower(class), substr) {
			return true
		}
	}
	return false
}

// IsButtonLike reports whether the element looks and behaves like a button.
func (c ElementContext) IsButtonLike() bool {
	switch c.TagName {
	case "button":
		return true
	case "input":
		switch strings.ToLower(c.Attr("type")) {
		case "submit", "button", "reset":
			return true
		}
	}
	if strings.EqualFold(c.Role, "button") {
		return true
	}
	return c.HasClassContaining("btn") || c.HasClassContaining("button")
}

// Describe returns a short CSS-like descriptor such as "button#buy.btn.btn-primary".
func (c ElementContext) Describe() string {
	var sb strings.Builder
	sb.WriteString(c.TagName)
	if c.ID != "" {
		sb.WriteString("#")
		sb.WriteString(c.ID)
	}
	for _, class := range c.Classes {
		sb.WriteString(".")
		sb.WriteString(class)
	}
	return sb.String()
}

// Declaration is a single property: value pair of a stylesheet rule.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a flattened stylesheet rule.
//
// Qualified rules carry SelectorText and Declarations; rules nested inside an
// @media block also carry its prelude in Media. At-rules carry AtRule (for
// example "@media" or "@font-face") and Prelude. Scope lists the enclosing
// @layer, @container, @scope and @supports blocks, outermost first.
type Rule struct {
	AtRule       string
	Prelude      string
	SelectorText string
	Declarations []Declaration
	Media        string
	Scope        string
}

// Value returns the last declared value of property, or "".
func (r Rule) Value(property string) string {
	value := ""
	for _, d := range r.Declarations {
		if d.Property == property {
			value = d.Value
		}
	}
	return value
}

// Matcher selects elements by their context.
type Matcher func(ElementContext) bool

// Any matches every element.
func Any() Matcher {
	return func(ElementContext) bool { return true }
}

// Snapshot is the capability the extractors need from a rendered page.
// Implementations must be safe for concurrent reads.
type Snapshot interface {
	// QueryAllVisible returns the visible elements accepted by match, in document order.
	QueryAllVisible(match Matcher) []Element
	// QueryAll is QueryAllVisible including hidden elements such as <link> and <script>.
	QueryAll(match Matcher) []Element
	// ComputedStyle returns the resolved value of a CSS property, or "" when unavailable.
	ComputedStyle(el Element, property string) string
	// ElementContext describes the element.
	ElementContext(el Element) ElementContext
	// StylesheetRules returns every readable rule. Sheets that cannot be read are skipped.
	StylesheetRules() []Rule
	// CSSCustomProperties returns the custom properties declared for scope (":root" or "html").
	CSSCustomProperties(scope string) map[string]string
}
