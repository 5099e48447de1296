package extractor

import (
	"sort"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// componentStyleProperties are majority-voted per component group.
var componentStyleProperties = []string{
	"background-color", "color", "padding", "border-radius",
	"border", "font-size", "font-weight", "box-shadow",
}

// stateProperties are copied from :hover/:focus/... rules into state overlays.
var stateProperties = []string{
	"background", "background-color", "color", "border", "border-color",
	"box-shadow", "transform", "outline", "outline-offset", "opacity", "text-decoration",
}

// statePseudoClasses are matched longest first so ":focus" does not shadow ":focus-visible".
var statePseudoClasses = []string{":focus-visible", ":focus-within", ":hover", ":active", ":focus"}

var badgeVariants = []string{"success", "warning", "error", "danger", "info", "primary", "secondary", "neutral"}

// componentKind describes how one kind of component is found and grouped.
type componentKind struct {
	name  string
	match snapshot.Matcher
	key   func(snap snapshot.Snapshot, el snapshot.Element, ctx snapshot.ElementContext) string
}

var componentKinds = []componentKind{
	{
		name:  "buttons",
		match: snapshot.Select("button, .btn, [role=button], input[type=submit], input[type=button], input[type=reset]"),
		key: func(snap snapshot.Snapshot, el snapshot.Element, _ snapshot.ElementContext) string {
			return colorKey(snap.ComputedStyle(el, "background-color"))
		},
	},
	{
		name: "inputs",
		match: func(ctx snapshot.ElementContext) bool {
			switch ctx.TagName {
			case "textarea", "select":
				return true
			case "input":
				switch strings.ToLower(ctx.Attr("type")) {
				case "submit", "button", "reset", "hidden", "checkbox", "radio", "image", "range", "color", "file":
					return false
				}
				return true
			}
			return false
		},
		key: func(_ snapshot.Snapshot, _ snapshot.Element, ctx snapshot.ElementContext) string {
			if ctx.TagName != "input" {
				return ctx.TagName
			}
			if t := strings.ToLower(ctx.Attr("type")); t != "" {
				return t
			}
			return "text"
		},
	},
	{
		name: "links",
		match: func(ctx snapshot.ElementContext) bool {
			return ctx.TagName == "a" && !ctx.IsButtonLike()
		},
		key: func(snap snapshot.Snapshot, el snapshot.Element, _ snapshot.ElementContext) string {
			return colorKey(snap.ComputedStyle(el, "color"))
		},
	},
	{
		name: "badges",
		match: func(ctx snapshot.ElementContext) bool {
			return ctx.HasClassContaining("badge") || ctx.HasClassContaining("chip") || ctx.HasClassContaining("pill")
		},
		key: func(_ snapshot.Snapshot, _ snapshot.Element, ctx snapshot.ElementContext) string {
			for _, v := range badgeVariants {
				if ctx.HasClassContaining(v) {
					return v
				}
			}
			return "default"
		},
	},
}

type componentGroup struct {
	key      string
	elements []snapshot.Element
}

// ExtractComponents groups buttons, inputs, links and badges by their
// discriminating style and reports each group's majority style and the
// interactive state overlays declared in stylesheets.
func ExtractComponents(snap snapshot.Snapshot, cfg Config) (*ComponentSection, error) {
	section := &ComponentSection{}
	rules := snap.StylesheetRules()

	for _, kind := range componentKinds {
		var groups []*componentGroup
		index := make(map[string]*componentGroup)
		var members []snapshot.ElementContext

		for _, el := range snap.QueryAllVisible(kind.match) {
			ctx := snap.ElementContext(el)
			members = append(members, ctx)
			key := kind.key(snap, el, ctx)
			g, ok := index[key]
			if !ok {
				g = &componentGroup{key: key}
				index[key] = g
				groups = append(groups, g)
			}
			g.elements = append(g.elements, el)
		}
		if len(groups) == 0 {
			continue
		}

		sort.SliceStable(groups, func(i, j int) bool {
			return len(groups[i].elements) > len(groups[j].elements)
		})
		if len(groups) > cfg.MaxComponentGroups {
			groups = groups[:cfg.MaxComponentGroups]
		}

		variants := make([]ComponentVariant, 0, len(groups))
		for _, g := range groups {
			variants = append(variants, ComponentVariant{
				Key:        g.key,
				Count:      len(g.elements),
				Styles:     majorityStyles(snap, g.elements),
				Confidence: cfg.Confidence.CountToConfidence(len(g.elements)),
			})
		}
		variants[0].States = stateOverlays(rules, members)

		switch kind.name {
		case "buttons":
			section.Buttons = variants
		case "inputs":
			section.Inputs = variants
		case "links":
			section.Links = variants
		case "badges":
			section.Badges = variants
		}
	}

	return section, nil
}

func majorityStyles(snap snapshot.Snapshot, elements []snapshot.Element) map[string]string {
	styles := make(map[string]string, len(componentStyleProperties))
	for _, prop := range componentStyleProperties {
		c := newCounter()
		for _, el := range elements {
			c.add(componentStyle(snap, el, prop))
		}
		if v, n := c.mostCommon(); n > 0 {
			styles[prop] = v
		}
	}
	return styles
}

// componentStyle reads a computed style, rebuilding the padding and border
// shorthands from their longhands when the snapshot does not report them.
func componentStyle(snap snapshot.Snapshot, el snapshot.Element, prop string) string {
	if v := snap.ComputedStyle(el, prop); v != "" {
		return v
	}
	switch prop {
	case "padding":
		sides := make([]string, 4)
		for i, side := range []string{"top", "right", "bottom", "left"} {
			sides[i] = snap.ComputedStyle(el, "padding-"+side)
			if sides[i] == "" {
				return ""
			}
		}
		return collapseBox(sides)
	case "border":
		width := snap.ComputedStyle(el, "border-top-width")
		style := snap.ComputedStyle(el, "border-top-style")
		color := snap.ComputedStyle(el, "border-top-color")
		if width == "" || style == "" {
			return ""
		}
		return strings.TrimSpace(width + " " + style + " " + color)
	}
	return ""
}

// collapseBox shortens a top/right/bottom/left list the way the CSS shorthand does.
func collapseBox(s []string) string {
	switch {
	case s[0] == s[1] && s[1] == s[2] && s[2] == s[3]:
		return s[0]
	case s[0] == s[2] && s[1] == s[3]:
		return s[0] + " " + s[1]
	case s[1] == s[3]:
		return s[0] + " " + s[1] + " " + s[2]
	}
	return strings.Join(s, " ")
}

// stateOverlays collects the state declarations of every rule whose selector,
// stripped of pseudo-classes, matches one of members. Later rules override
// earlier ones.
func stateOverlays(rules []snapshot.Rule, members []snapshot.ElementContext) map[string]map[string]string {
	states := make(map[string]map[string]string)

	for _, rule := range rules {
		if rule.AtRule != "" || rule.SelectorText == "" {
			continue
		}
		for _, selector := range snapshot.SplitSelectorList(rule.SelectorText) {
			last := snapshot.LastCompound(selector)
			state := findState(last)
			if state == "" {
				continue
			}
			base := stripPseudo(last)
			if base == "" || !anyMatches(snapshot.Select(base), members) {
				continue
			}

			overlay := states[state]
			for _, prop := range stateProperties {
				v := rule.Value(prop)
				if v == "" {
					continue
				}
				if overlay == nil {
					overlay = make(map[string]string)
					states[state] = overlay
				}
				overlay[prop] = v
			}
		}
	}

	if len(states) == 0 {
		return nil
	}
	return states
}

func findState(compound string) string {
	for _, pseudo := range statePseudoClasses {
		i := strings.Index(compound, pseudo)
		if i < 0 {
			continue
		}
		end := i + len(pseudo)
		// Reject prefixes of longer pseudo-classes, e.g. ":focus" inside ":focus-visible".
		if end < len(compound) && (compound[end] == '-' || isLetter(compound[end])) {
			continue
		}
		return pseudo
	}
	return ""
}

// stripPseudo cuts a compound selector at its first top-level colon.
func stripPseudo(compound string) string {
	depth := 0
	for i := 0; i < len(compound); i++ {
		switch compound[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ':':
			if depth == 0 {
				return compound[:i]
			}
		}
	}
	return compound
}

func anyMatches(match snapshot.Matcher, members []snapshot.ElementContext) bool {
	for _, ctx := range members {
		if match(ctx) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// colorKey normalizes a color for grouping; unparseable or transparent colors keep a readable key.
func colorKey(value string) string {
	if colorspace.IsTransparent(value) {
		return "transparent"
	}
	if hex, ok := colorspace.NormalizeToHex(value); ok {
		return hex
	}
	if value == "" {
		return "none"
	}
	return value
}
