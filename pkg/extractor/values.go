package extractor

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// counter tallies string values and remembers first-seen order for stable tie-breaks.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	c.addN(v, 1)
}

func (c *counter) addN(v string, n int) {
	if v == "" {
		return
	}
	if _, seen := c.counts[v]; !seen {
		c.order = append(c.order, v)
	}
	c.counts[v] += n
}

func (c *counter) count(v string) int {
	return c.counts[v]
}

func (c *counter) len() int {
	return len(c.order)
}

// mostCommon returns the most frequent value; the earliest seen wins ties.
func (c *counter) mostCommon() (string, int) {
	best, bestCount := "", 0
	for _, v := range c.order {
		if n := c.counts[v]; n > bestCount {
			best, bestCount = v, n
		}
	}
	return best, bestCount
}

// ranked returns the values by descending count, earliest seen first among equals.
func (c *counter) ranked() []string {
	out := append([]string(nil), c.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}

// parsePx parses a CSS pixel length. Unitless zero is accepted; other units are not.
func parsePx(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "0" {
		return 0, true
	}
	if !strings.HasSuffix(s, "px") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// formatPx renders a pixel value without trailing zeros, e.g. "4px" or "0.5px".
func formatPx(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "px"
}

// firstListValue returns the first entry of a comma-separated CSS list.
func firstListValue(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// Element kinds used to group radii, paddings and components.
const (
	kindButton = "button"
	kindInput  = "input"
	kindCard   = "card"
	kindBadge  = "badge"
	kindModal  = "modal"
	kindImage  = "image"
	kindOther  = "other"
)

// kindRule classifies an element by tag, input type, role or class substring.
type kindRule struct {
	kind       string
	tags       []string
	inputTypes []string
	roles      []string
	classes    []string
}

// elementKinds is evaluated in order; the first matching rule wins.
var elementKinds = []kindRule{
	{
		kind:       kindButton,
		tags:       []string{"button"},
		inputTypes: []string{"submit", "button", "reset"},
		roles:      []string{"button"},
		classes:    []string{"btn", "button"},
	},
	{
		kind:    kindInput,
		tags:    []string{"input", "textarea", "select"},
		roles:   []string{"textbox", "searchbox", "combobox", "spinbutton"},
		classes: []string{"form-control", "input", "text-field"},
	},
	{
		kind:    kindModal,
		tags:    []string{"dialog"},
		roles:   []string{"dialog", "alertdialog"},
		classes: []string{"modal", "dialog", "drawer"},
	},
	{
		kind:    kindBadge,
		roles:   []string{"status"},
		classes: []string{"badge", "chip", "pill", "tag-"},
	},
	{
		kind:    kindCard,
		tags:    []string{"article"},
		classes: []string{"card", "panel", "tile"},
	},
	{
		kind:    kindImage,
		tags:    []string{"img", "picture", "svg", "video", "canvas"},
		roles:   []string{"img"},
		classes: []string{"avatar", "thumbnail"},
	},
}

// classifyElement returns the element kind of ctx, or kindOther.
func classifyElement(ctx snapshot.ElementContext) string {
	for _, rule := range elementKinds {
		if rule.matches(ctx) {
			return rule.kind
		}
	}
	return kindOther
}

func (r kindRule) matches(ctx snapshot.ElementContext) bool {
	if ctx.TagName == "input" && len(r.inputTypes) > 0 {
		typ := strings.ToLower(ctx.Attr("type"))
		for _, t := range r.inputTypes {
			if typ == t {
				return true
			}
		}
	}
	for _, tag := range r.tags {
		if ctx.TagName == tag {
			if tag == "input" && isButtonInput(ctx) {
				return false
			}
			return true
		}
	}
	for _, role := range r.roles {
		if strings.EqualFold(ctx.Role, role) {
			return true
		}
	}
	for _, class := range r.classes {
		if ctx.HasClassContaining(class) {
			return true
		}
	}
	return false
}

func isButtonInput(ctx snapshot.ElementContext) bool {
	switch strings.ToLower(ctx.Attr("type")) {
	case "submit", "button", "reset":
		return true
	}
	return false
}
