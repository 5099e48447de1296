package extractor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/deltae"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// colorProperties are the computed styles sampled for colors.
var colorProperties = []string{
	"color",
	"background-color",
	"border-top-color",
	"border-right-color",
	"border-bottom-color",
	"border-left-color",
	"outline-color",
	"fill",
	"stroke",
	"text-decoration-color",
}

// semanticSlot is a named color role and the custom property name fragments that fill it.
type semanticSlot struct {
	name    string
	aliases []string
}

var semanticSlots = []semanticSlot{
	{"primary", []string{"primary"}},
	{"secondary", []string{"secondary"}},
	{"accent", []string{"accent"}},
	{"success", []string{"success"}},
	{"warning", []string{"warning"}},
	{"error", []string{"error", "danger"}},
	{"info", []string{"info"}},
	{"background", []string{"background", "bg"}},
	{"text", []string{"text", "foreground"}},
	{"border", []string{"border"}},
}

// statusCategories maps status slots to the hue families that can fill them.
var statusCategories = map[string][]colorspace.Category{
	"success": {colorspace.CategoryGreen},
	"warning": {colorspace.CategoryYellow, colorspace.CategoryOrange},
	"error":   {colorspace.CategoryRed},
	"info":    {colorspace.CategoryCyan, colorspace.CategoryBlue},
}

const maxColorElements = 5

// colorSample aggregates every use of one exact hex.
type colorSample struct {
	hex      string
	count    int
	score    int
	sources  []string
	elements []string
	props    map[string]int
}

// colorCandidate is a deduplicated color with its usage per property group.
type colorCandidate struct {
	token      ColorToken
	members    []string
	background int
	text       int
	border     int
	lab        colorspace.LAB
	chromatic  bool
	category   colorspace.Category
}

// ExtractColors samples color properties of every visible element, merges
// perceptually equal colors and assigns semantic roles.
func ExtractColors(snap snapshot.Snapshot, cfg Config) (*ColorSection, error) {
	samples, order := collectColorSamples(snap, cfg)

	clusters := make([]deltae.Cluster, 0, len(order))
	for _, hex := range order {
		s := samples[hex]
		level := confidence.Merge(
			cfg.Confidence.ScoreToConfidence(s.score),
			cfg.Confidence.CountToConfidence(s.count),
		)
		clusters = append(clusters, deltae.Cluster{
			Hex:        hex,
			Count:      s.count,
			Score:      s.score,
			Sources:    s.sources,
			Confidence: level,
		})
	}
	sortClusters(clusters)
	clusters = deltae.Deduplicate(clusters, cfg.DedupThreshold)
	sortClusters(clusters)

	candidates := make([]colorCandidate, 0, len(clusters))
	for _, cl := range clusters {
		c := newColorCandidate(newColorToken(cl.Hex))
		c.members = cl.Members
		c.token.Count = cl.Count
		c.token.Score = cl.Score
		c.token.Sources = cl.Sources
		c.token.Confidence = cl.Confidence
		for _, member := range cl.Members {
			s, ok := samples[member]
			if !ok {
				continue
			}
			c.background += s.props["background-color"]
			c.text += s.props["color"]
			for prop, n := range s.props {
				if strings.HasPrefix(prop, "border-") {
					c.border += n
				}
			}
			c.token.Elements = appendLimited(c.token.Elements, maxColorElements, s.elements...)
		}
		candidates = append(candidates, c)
	}

	section := &ColorSection{
		Semantic:  make(map[string]ColorToken),
		Variables: colorVariables(snap, cfg),
	}

	used := make(map[string]bool)
	assignVariableSlots(section, candidates, used)

	ranked := confidence.Filter(candidates, cfg.PaletteMinConfidence, func(c colorCandidate) confidence.Level {
		return c.token.Confidence
	})
	assignPaletteSlots(section, ranked, used)

	for _, c := range ranked {
		if !used[c.token.Hex] {
			section.Palette = append(section.Palette, c.token)
		}
	}

	return section, nil
}

func collectColorSamples(snap snapshot.Snapshot, cfg Config) (map[string]*colorSample, []string) {
	samples := make(map[string]*colorSample)
	var order []string

	for _, el := range snap.QueryAllVisible(snapshot.Any()) {
		ctx := snap.ElementContext(el)
		base := cfg.Confidence.ContextScore(ctx)

		for _, prop := range colorProperties {
			if !colorPropertyPainted(snap, el, ctx, prop) {
				continue
			}
			raw := snap.ComputedStyle(el, prop)
			if raw == "" || colorspace.IsTransparent(raw) {
				continue
			}
			rgb, ok := colorspace.ParseColor(raw)
			if !ok || rgb.A <= 0 {
				continue
			}

			hex := rgb.Hex()
			s, ok := samples[hex]
			if !ok {
				s = &colorSample{hex: hex, props: make(map[string]int)}
				samples[hex] = s
				order = append(order, hex)
			}
			s.count++
			if score := base + cfg.Confidence.ColoredButtonBoost(ctx, rgb); score > s.score {
				s.score = score
			}
			s.props[prop]++
			s.sources = appendLimited(s.sources, len(colorProperties), prop)
			s.elements = appendLimited(s.elements, maxColorElements, ctx.Describe())
		}
	}
	return samples, order
}

// colorPropertyPainted filters out colors that are computed but never drawn.
// Browsers report currentcolor for borders and outlines of every element and a
// black fill for every HTML element, which would otherwise inflate those colors.
func colorPropertyPainted(snap snapshot.Snapshot, el snapshot.Element, ctx snapshot.ElementContext, prop string) bool {
	var side string
	switch {
	case strings.HasPrefix(prop, "border-") && strings.HasSuffix(prop, "-color"):
		side = strings.TrimSuffix(prop, "-color")
	case prop == "outline-color":
		side = "outline"
	case prop == "fill" || prop == "stroke":
		return svgTags[ctx.TagName]
	case prop == "text-decoration-color":
		line := snap.ComputedStyle(el, "text-decoration-line")
		return line != "" && line != "none"
	default:
		return true
	}

	if style := snap.ComputedStyle(el, side+"-style"); style == "none" || style == "hidden" {
		return false
	}
	if width := snap.ComputedStyle(el, side+"-width"); width != "" {
		if px, ok := parsePx(width); ok && px == 0 {
			return false
		}
	}
	return true
}

var svgTags = map[string]bool{
	"svg": true, "path": true, "circle": true, "rect": true, "ellipse": true,
	"line": true, "polyline": true, "polygon": true, "g": true, "use": true, "text": true,
}

func sortClusters(clusters []deltae.Cluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Hex < b.Hex
	})
}

func newColorToken(hex string) ColorToken {
	rgb, _ := colorspace.HexToRGB(hex)
	return ColorToken{
		Hex:   hex,
		RGB:   colorspace.FormatRGBString(rgb),
		LCH:   colorspace.RGBToLCH(rgb).Rounded(2),
		OKLCH: colorspace.RGBToOKLCH(rgb).Rounded(3),
	}
}

func newColorCandidate(token ColorToken) colorCandidate {
	rgb, _ := colorspace.HexToRGB(token.Hex)
	return colorCandidate{
		token:     token,
		lab:       colorspace.RGBToLAB(rgb),
		chromatic: colorspace.IsChromatic(rgb),
		category:  colorspace.ColorCategory(rgb),
	}
}

// colorVariables returns the color custom properties of the root scopes as name -> hex.
// Values of :root override html.
func colorVariables(snap snapshot.Snapshot, cfg Config) map[string]string {
	all := make(map[string]string)
	for _, scope := range []string{"html", ":root"} {
		for name, value := range snap.CSSCustomProperties(scope) {
			all[name] = value
		}
	}

	vars := make(map[string]string)
	for name, value := range all {
		if !matchesAny(cfg.ColorVariables, name) || matchesAny(cfg.IgnoredVariables, name) {
			continue
		}
		if hex, ok := resolveVariableColor(name, value, all); ok {
			vars[name] = hex
		}
	}
	if len(vars) == 0 {
		return nil
	}
	return vars
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// resolveVariableColor parses a custom property value, following one level of
// var() indirection. Bare channel lists ("59 130 246", "217 91% 60%") as used by
// shadcn-style themes are read as rgb or hsl, unless the property name marks a
// non-color value such as --text-shadow or --border-width.
func resolveVariableColor(name, value string, vars map[string]string) (string, bool) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "var(") && strings.HasSuffix(value, ")") {
		inner := value[len("var(") : len(value)-1]
		ref, fallback, _ := strings.Cut(inner, ",")
		if v, ok := vars[strings.TrimSpace(ref)]; ok {
			value = strings.TrimSpace(v)
		} else {
			value = strings.TrimSpace(fallback)
		}
	}

	if hex, ok := colorspace.NormalizeToHex(value); ok {
		return hex, true
	}

	fields := strings.Fields(strings.ReplaceAll(value, ",", " "))
	if len(fields) != 3 || nonColorVariable(name) {
		return "", false
	}
	for _, f := range fields {
		if _, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64); err != nil {
			return "", false
		}
	}
	fn := "rgb("
	if !strings.HasSuffix(fields[0], "%") && strings.HasSuffix(fields[1], "%") && strings.HasSuffix(fields[2], "%") {
		fn = "hsl("
	}
	return colorspace.NormalizeToHex(fn + strings.Join(fields, " ") + ")")
}

var nonColorSegments = map[string]bool{"shadow": true, "spacing": true, "width": true, "size": true, "radius": true}

func nonColorVariable(name string) bool {
	for _, seg := range strings.Split(strings.TrimPrefix(name, "--"), "-") {
		if nonColorSegments[seg] {
			return true
		}
	}
	return false
}

// assignVariableSlots fills semantic slots from custom property names. For each
// slot the shortest matching name wins, so --primary beats --primary-foreground.
func assignVariableSlots(section *ColorSection, candidates []colorCandidate, used map[string]bool) {
	if len(section.Variables) == 0 {
		return
	}

	names := make([]string, 0, len(section.Variables))
	for name := range section.Variables {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})

	for _, slot := range semanticSlots {
		for _, name := range names {
			if !slotMatches(slot, name) {
				continue
			}
			hex := section.Variables[name]
			token := newColorToken(hex)
			token.Variable = name
			token.Usage = slot.name
			token.Confidence = confidence.Medium
			for _, c := range candidates {
				if c.token.Hex == hex || containsString(c.members, hex) {
					token.Count = c.token.Count
					token.Score = c.token.Score
					token.Sources = c.token.Sources
					token.Elements = c.token.Elements
					token.Confidence = confidence.High
					used[c.token.Hex] = true
					break
				}
			}
			section.Semantic[slot.name] = token
			used[hex] = true
			break
		}
	}
}

func slotMatches(slot semanticSlot, name string) bool {
	lower := strings.ToLower(name)
	for _, alias := range slot.aliases {
		if strings.Contains(lower, alias) {
			return true
		}
	}
	return false
}

// assignPaletteSlots fills the slots left empty by custom properties using
// lightness, chroma and usage heuristics over the ranked palette.
func assignPaletteSlots(section *ColorSection, ranked []colorCandidate, used map[string]bool) {
	pick := func(slot string, accept func(colorCandidate) bool) {
		if _, filled := section.Semantic[slot]; filled {
			return
		}
		for _, c := range ranked {
			if used[c.token.Hex] || !accept(c) {
				continue
			}
			token := c.token
			token.Usage = slot
			section.Semantic[slot] = token
			used[token.Hex] = true
			return
		}
	}

	pick("background", func(c colorCandidate) bool { return c.lab.L > 90 && c.background > 0 })
	pick("text", func(c colorCandidate) bool { return c.lab.L < 30 && c.text > 0 })
	pick("border", func(c colorCandidate) bool { return c.lab.L > 70 && !c.chromatic && c.border > 0 })

	if _, filled := section.Semantic["primary"]; !filled {
		best := -1
		for i, c := range ranked {
			if used[c.token.Hex] || !c.chromatic {
				continue
			}
			if best < 0 || c.token.Score > ranked[best].token.Score {
				best = i
			}
		}
		if best >= 0 {
			token := ranked[best].token
			token.Usage = "primary"
			section.Semantic["primary"] = token
			used[token.Hex] = true
		}
	}

	pick("secondary", func(c colorCandidate) bool { return c.chromatic })
	pick("accent", func(c colorCandidate) bool { return c.chromatic })

	for _, slot := range []string{"success", "warning", "error", "info"} {
		categories := statusCategories[slot]
		pick(slot, func(c colorCandidate) bool {
			for _, cat := range categories {
				if c.category == cat {
					return true
				}
			}
			return false
		})
	}
}

func appendLimited(dst []string, limit int, values ...string) []string {
	for _, v := range values {
		if len(dst) >= limit {
			break
		}
		if !containsString(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
