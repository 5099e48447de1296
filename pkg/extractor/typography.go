package extractor

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// typographyRoles maps each semantic text role to the elements sampled for it.
var typographyRoles = []struct {
	role     string
	selector string
}{
	{"h1", "h1"},
	{"h2", "h2"},
	{"h3", "h3"},
	{"h4", "h4"},
	{"body", "p, body"},
	{"caption", "small, figcaption, .caption"},
	{"button", "button, .btn, [role=button]"},
	{"label", "label"},
	{"link", "a"},
	{"code", "code, pre, kbd"},
}

var headingRoles = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true}

var namedWeights = map[string]string{
	"thin":       "100",
	"hairline":   "100",
	"extralight": "200",
	"ultralight": "200",
	"light":      "300",
	"lighter":    "300",
	"normal":     "400",
	"regular":    "400",
	"medium":     "500",
	"semibold":   "600",
	"demibold":   "600",
	"bold":       "700",
	"bolder":     "700",
	"extrabold":  "800",
	"ultrabold":  "800",
	"black":      "900",
	"heavy":      "900",
}

var monoKeywords = []string{
	"mono", "code", "courier", "consolas", "menlo", "monaco",
	"inconsolata", "source code", "fira code", "jetbrains",
}

// ExtractTypography majority-votes the font properties of each text role and
// detects font families and web font sources.
//
// Each property is voted independently, so a role's style may combine values
// that never appeared together on a single element.
func ExtractTypography(snap snapshot.Snapshot, cfg Config) (*TypographySection, error) {
	section := &TypographySection{Styles: make(map[string]TypographyStyle)}

	headingFamilies := newCounter()
	bodyFamilies := newCounter()
	var stacks []string

	for _, r := range typographyRoles {
		var (
			sizes     = newCounter()
			weights   = newCounter()
			lines     = newCounter()
			spacings  = newCounter()
			families  = newCounter()
			transform = newCounter()
			samples   int
		)

		for _, el := range snap.QueryAllVisible(snapshot.Select(r.selector)) {
			size := snap.ComputedStyle(el, "font-size")
			if size == "" {
				continue
			}
			samples++

			sizes.add(size)
			weights.add(normalizeFontWeight(snap.ComputedStyle(el, "font-weight")))
			lines.add(normalizeLineHeight(snap.ComputedStyle(el, "line-height"), size))

			if ls := snap.ComputedStyle(el, "letter-spacing"); ls != "normal" {
				spacings.add(ls)
			}
			if tt := snap.ComputedStyle(el, "text-transform"); tt != "none" {
				transform.add(tt)
			}

			stack := snap.ComputedStyle(el, "font-family")
			family := primaryFamily(stack)
			families.add(family)
			if stack != "" {
				stacks = append(stacks, stack)
			}

			switch {
			case headingRoles[r.role]:
				headingFamilies.add(family)
			case r.role == "body":
				bodyFamilies.add(family)
			}
		}

		if samples == 0 {
			continue
		}

		style := TypographyStyle{Samples: samples, Confidence: cfg.Confidence.CountToConfidence(samples)}
		style.FontSize, _ = sizes.mostCommon()
		style.FontWeight, _ = weights.mostCommon()
		style.LineHeight, _ = lines.mostCommon()
		style.LetterSpacing, _ = spacings.mostCommon()
		style.FontFamily, _ = families.mostCommon()
		style.TextTransform, _ = transform.mostCommon()
		section.Styles[r.role] = style
	}

	section.Families.Heading, _ = headingFamilies.mostCommon()
	section.Families.Body, _ = bodyFamilies.mostCommon()
	section.Families.Mono = detectMonoFamily(stacks)
	section.Sources = detectFontSources(snap)

	return section, nil
}

// normalizeFontWeight maps keyword weights to their numeric value.
func normalizeFontWeight(w string) string {
	w = strings.ToLower(strings.TrimSpace(w))
	if w == "" {
		return ""
	}
	if n, ok := namedWeights[strings.ReplaceAll(w, "-", "")]; ok {
		return n
	}
	if f, err := strconv.ParseFloat(w, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return w
}

// normalizeLineHeight turns a pixel line-height into a unitless ratio of the
// pixel font size ("24px" at "16px" -> "1.5"). Anything else passes through.
func normalizeLineHeight(lineHeight, fontSize string) string {
	lh, ok := parsePx(lineHeight)
	if !ok {
		return strings.TrimSpace(lineHeight)
	}
	fs, ok := parsePx(fontSize)
	if !ok || fs == 0 {
		return strings.TrimSpace(lineHeight)
	}
	return strconv.FormatFloat(float64(int(lh/fs*100+0.5))/100, 'f', -1, 64)
}

// primaryFamily returns the first family of a font-family stack, unquoted.
func primaryFamily(stack string) string {
	return unquote(firstListValue(stack))
}

var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true, "fantasy": true,
	"system-ui": true, "ui-serif": true, "ui-sans-serif": true, "ui-monospace": true, "ui-rounded": true,
}

// detectMonoFamily returns the first named family in any stack that looks monospaced.
func detectMonoFamily(stacks []string) string {
	for _, stack := range stacks {
		for _, family := range strings.Split(stack, ",") {
			name := unquote(family)
			lower := strings.ToLower(name)
			if genericFamilies[lower] {
				continue
			}
			for _, kw := range monoKeywords {
				if strings.Contains(lower, kw) {
					return name
				}
			}
		}
	}
	return ""
}

// detectFontSources finds Google Fonts and Typekit includes and @font-face rules.
func detectFontSources(snap snapshot.Snapshot) []FontSource {
	var sources []FontSource

	for _, el := range snap.QueryAll(snapshot.Select("link[href*=fonts.googleapis.com]")) {
		href := snap.ElementContext(el).Attr("href")
		sources = append(sources, parseGoogleFonts(href)...)
	}

	for _, el := range snap.QueryAll(snapshot.Select("script[src*=use.typekit.net], link[href*=use.typekit.net]")) {
		ctx := snap.ElementContext(el)
		ref := ctx.Attr("src")
		if ref == "" {
			ref = ctx.Attr("href")
		}
		sources = append(sources, FontSource{Provider: "typekit", URL: ref})
	}

	custom := make(map[string]*FontSource)
	var order []string
	for _, rule := range snap.StylesheetRules() {
		if rule.AtRule != "@font-face" {
			continue
		}
		family := unquote(rule.Value("font-family"))
		if family == "" {
			continue
		}
		src := rule.Value("src")
		weight := strings.TrimSpace(rule.Value("font-weight"))

		fs, ok := custom[family]
		if !ok {
			fs = &FontSource{Family: family, Provider: "custom"}
			custom[family] = fs
			order = append(order, family)
		}
		if strings.Contains(src, "wght") || strings.Contains(src, "ital") || len(strings.Fields(weight)) > 1 {
			fs.Variable = true
		}
		if weight != "" {
			fs.Weights = appendLimited(fs.Weights, 16, normalizeFontWeight(weight))
		}
		if fs.URL == "" {
			fs.URL = fontFaceURL(src)
		}
	}
	for _, family := range order {
		sources = append(sources, *custom[family])
	}

	return sources
}

// parseGoogleFonts reads the families requested by a Google Fonts stylesheet URL.
// Both the css ("family=Roboto:400,700|Open+Sans") and css2
// ("family=Inter:wght@400;700&family=Roboto") APIs are understood.
func parseGoogleFonts(href string) []FontSource {
	u, err := url.Parse(href)
	if err != nil {
		return nil
	}

	var out []FontSource
	// css2 separates weights with ';', which url.ParseQuery rejects.
	for _, pair := range strings.Split(u.RawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key != "family" {
			continue
		}
		param, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		for _, spec := range strings.Split(param, "|") {
			name, axes, _ := strings.Cut(spec, ":")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			fs := FontSource{Family: name, Provider: "google", URL: href}

			if tags, values, ok := strings.Cut(axes, "@"); ok {
				// css2: wght@400;700 or ital,wght@0,400;1,700
				fs.Variable = strings.Contains(values, "..")
				for _, tuple := range strings.Split(values, ";") {
					parts := strings.Split(tuple, ",")
					if strings.Contains(tags, "wght") {
						fs.Weights = appendLimited(fs.Weights, 16, parts[len(parts)-1])
					}
				}
			} else if axes != "" {
				for _, w := range strings.Split(axes, ",") {
					w = strings.TrimSuffix(strings.TrimSpace(w), "italic")
					if w == "" || w == "i" {
						w = "400"
					}
					fs.Weights = appendLimited(fs.Weights, 16, strings.TrimSuffix(w, "i"))
				}
			}
			sort.Strings(fs.Weights)
			out = append(out, fs)
		}
	}
	return out
}

// fontFaceURL returns the first url(...) of an @font-face src descriptor.
func fontFaceURL(src string) string {
	start := strings.Index(src, "url(")
	if start < 0 {
		return ""
	}
	rest := src[start+len("url("):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return unquote(rest[:end])
}
