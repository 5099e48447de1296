package snapshot

import "time"

// Capture is the JSON document a browser capture tool writes for one page.
// It contains every element with its computed styles, the raw text of each
// stylesheet and the custom properties resolved on the root scopes.
type Capture struct {
	URL              string                       `json:"url"`
	Title            string                       `json:"title,omitempty"`
	CapturedAt       time.Time                    `json:"capturedAt,omitempty"`
	Viewport         Viewport                     `json:"viewport"`
	Elements         []CapturedElement            `json:"elements"`
	Stylesheets      []CapturedStylesheet         `json:"stylesheets,omitempty"`
	CustomProperties map[string]map[string]string `json:"customProperties,omitempty"`
}

// Viewport is the window size the page was rendered at.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CapturedElement is one DOM element with its context and computed styles.
// Styles maps CSS property names (kebab-case) to resolved values.
type CapturedElement struct {
	Tag        string            `json:"tag"`
	ID         string            `json:"id,omitempty"`
	Classes    []string          `json:"classes,omitempty"`
	Role       string            `json:"role,omitempty"`
	Visible    bool              `json:"visible"`
	Box        Rect              `json:"box"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Styles     map[string]string `json:"styles,omitempty"`
}

// CapturedStylesheet is the source of one <style> element or linked sheet.
// CrossOrigin marks sheets whose rules the browser refused to expose; their
// CSS is ignored even when present.
type CapturedStylesheet struct {
	Href        string `json:"href,omitempty"`
	CSS         string `json:"css"`
	CrossOrigin bool   `json:"crossOrigin,omitempty"`
}
