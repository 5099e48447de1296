package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// Signature describes the traces a framework or icon system leaves in the DOM
// and in stylesheets. Every class, attribute, id, tag or asset URL that matches
// counts as one piece of evidence; a signature is detected once it has at least
// MinMatches pieces.
type Signature struct {
	Name string
	// Classes are matched against each class of each element and each class
	// named in stylesheet selectors.
	Classes []*regexp.Regexp
	// Attributes are exact attribute names; AttributePrefixes match name prefixes.
	Attributes        []string
	AttributePrefixes []string
	IDs               []*regexp.Regexp
	Tags              []string
	// Assets are substrings of src or href attributes.
	Assets []string

	MinMatches int
	// Strength is the confidence of a detection; it is raised to High when the
	// evidence reaches three times MinMatches.
	Strength confidence.Level
}

func rx(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// FrameworkSignatures are the CSS and JavaScript frameworks recognized on a page.
var FrameworkSignatures = []Signature{
	{
		Name: "Tailwind CSS",
		Classes: rx(
			`^([a-z0-9]+:)*-?(p|px|py|pt|pr|pb|pl|m|mx|my|mt|mr|mb|ml|gap|space-[xy])-(\d+(\.5)?|px|auto)$`,
			`^([a-z0-9]+:)*(text|bg|border|ring|fill|stroke)-(slate|gray|zinc|neutral|stone|red|orange|amber|yellow|lime|green|emerald|teal|cyan|sky|blue|indigo|violet|purple|fuchsia|pink|rose)-\d{2,3}(/\d+)?$`,
			`^([a-z0-9]+:)*(rounded|shadow)(-(none|sm|md|lg|xl|2xl|3xl|full|inner))?$`,
			`^([a-z0-9]+:)*(w|h|min-w|max-w|min-h)-(\d+|full|screen|auto|\[.+\])$`,
		),
		MinMatches: 10,
		Strength:   confidence.Medium,
	},
	{
		Name: "Bootstrap",
		Classes: rx(
			`^btn-(primary|secondary|success|danger|warning|info|light|dark|link|outline-[a-z]+)$`,
			`^col-(xs-|sm-|md-|lg-|xl-|xxl-)?\d{1,2}$`,
			`^navbar-(expand(-[a-z]+)?|brand|nav|toggler|collapse)$`,
			`^(form-control|form-group|form-select|d-(none|flex|block|inline-block)|justify-content-[a-z]+)$`,
		),
		AttributePrefixes: []string{"data-bs-"},
		MinMatches:        3,
		Strength:          confidence.High,
	},
	{
		Name:       "Material UI",
		Classes:    rx(`^Mui[A-Z][A-Za-z]*(-[a-zA-Z]+)?$`),
		MinMatches: 3,
		Strength:   confidence.High,
	},
	{
		Name:       "Ant Design",
		Classes:    rx(`^ant-[a-z]`),
		MinMatches: 3,
		Strength:   confidence.High,
	},
	{
		Name:       "Chakra UI",
		Classes:    rx(`^chakra-[a-z]`),
		MinMatches: 3,
		Strength:   confidence.High,
	},
	{
		Name: "Bulma",
		Classes: rx(
			`^is-(primary|link|info|success|warning|danger|active|fullwidth)$`,
			`^has-(text|background)-[a-z-]+$`,
			`^(navbar-burger|navbar-menu|hero-body|is-ancestor)$`,
		),
		MinMatches: 3,
		Strength:   confidence.Medium,
	},
	{
		Name: "Foundation",
		Classes: rx(
			`^(small|medium|large)-\d{1,2}$`,
			`^(top-bar|callout|grid-x|grid-y|cell|off-canvas)$`,
		),
		MinMatches: 3,
		Strength:   confidence.Medium,
	},
	{
		Name:              "Radix UI / shadcn",
		AttributePrefixes: []string{"data-radix-"},
		IDs:               rx(`^radix-`),
		MinMatches:        2,
		Strength:          confidence.High,
	},
	{
		Name:       "styled-components",
		Classes:    rx(`^sc-[a-zA-Z]+$`),
		Attributes: []string{"data-styled", "data-styled-version"},
		MinMatches: 3,
		Strength:   confidence.High,
	},
	{
		Name:       "Emotion",
		Classes:    rx(`^css-[a-z0-9]{5,}(-[A-Za-z0-9]+)*$`),
		Attributes: []string{"data-emotion"},
		MinMatches: 3,
		Strength:   confidence.High,
	},
	{
		Name:       "Next.js",
		IDs:        rx(`^__next$`),
		Tags:       []string{"next-route-announcer"},
		Assets:     []string{"/_next/"},
		MinMatches: 1,
		Strength:   confidence.High,
	},
	{
		Name:       "Nuxt",
		IDs:        rx(`^__nuxt$`),
		Attributes: []string{"data-n-head"},
		Assets:     []string{"/_nuxt/"},
		MinMatches: 1,
		Strength:   confidence.High,
	},
	{
		Name:              "Vue",
		AttributePrefixes: []string{"data-v-"},
		Attributes:        []string{"data-server-rendered"},
		MinMatches:        3,
		Strength:          confidence.High,
	},
	{
		Name:       "React",
		Attributes: []string{"data-reactroot", "data-reactid"},
		MinMatches: 1,
		Strength:   confidence.Medium,
	},
	{
		Name:              "Angular",
		Attributes:        []string{"ng-version"},
		AttributePrefixes: []string{"_ngcontent-", "_nghost-"},
		MinMatches:        1,
		Strength:          confidence.High,
	},
}

// IconSignatures are the icon systems recognized on a page.
var IconSignatures = []Signature{
	{
		Name:       "Font Awesome",
		Classes:    rx(`^fa-[a-z0-9-]+$`, `^(fa|fas|far|fab|fal|fad|fa-solid|fa-regular|fa-brands)$`),
		Assets:     []string{"fontawesome", "font-awesome"},
		MinMatches: 2,
		Strength:   confidence.High,
	},
	{
		Name:       "Material Icons",
		Classes:    rx(`^material-(icons|symbols)(-[a-z]+)?$`),
		MinMatches: 1,
		Strength:   confidence.High,
	},
	{
		Name:       "Heroicons",
		Classes:    rx(`^heroicon(-[a-z0-9-]+)?$`),
		Attributes: []string{"data-heroicon"},
		MinMatches: 1,
		Strength:   confidence.Medium,
	},
	{
		Name:       "Ionicons",
		Tags:       []string{"ion-icon"},
		MinMatches: 1,
		Strength:   confidence.High,
	},
	{
		Name:       "Feather",
		Classes:    rx(`^feather(-[a-z0-9-]+)?$`),
		Attributes: []string{"data-feather"},
		MinMatches: 1,
		Strength:   confidence.Medium,
	},
	{
		Name:       "Lucide",
		Classes:    rx(`^lucide(-[a-z0-9-]+)?$`),
		Attributes: []string{"data-lucide"},
		MinMatches: 1,
		Strength:   confidence.Medium,
	},
}

var bemPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*__[a-z0-9-]+(--[a-z0-9-]+)?$`)

const (
	minBEMClasses = 5
	maxExamples   = 3
)

// pageVocabulary is everything signatures are matched against, gathered once.
type pageVocabulary struct {
	elements []snapshot.ElementContext
	// selectorClasses holds one entry per class occurrence in stylesheet selectors.
	selectorClasses []string
}

func collectVocabulary(snap snapshot.Snapshot) pageVocabulary {
	var v pageVocabulary
	for _, el := range snap.QueryAll(snapshot.Any()) {
		v.elements = append(v.elements, snap.ElementContext(el))
	}
	for _, rule := range snap.StylesheetRules() {
		if rule.SelectorText != "" {
			v.selectorClasses = append(v.selectorClasses, selectorClasses(rule.SelectorText)...)
		}
	}
	return v
}

// ExtractFrameworks matches the page against framework and icon signatures and
// checks whether class names follow BEM.
func ExtractFrameworks(snap snapshot.Snapshot, cfg Config) (*FrameworkSection, error) {
	vocab := collectVocabulary(snap)
	section := &FrameworkSection{
		Frameworks: detectSignatures(FrameworkSignatures, vocab),
		Icons:      detectSignatures(IconSignatures, vocab),
	}

	if len(section.Icons) == 0 {
		count := 0
		for _, ctx := range vocab.elements {
			if ctx.TagName == "svg" && ctx.HasClassContaining("icon") {
				count++
			}
		}
		if count > 0 {
			section.Icons = append(section.Icons, Detection{
				Name:       "SVG icons",
				Evidence:   count,
				Confidence: cfg.Confidence.CountToConfidence(count),
			})
		}
	}

	bem := newCounter()
	for _, ctx := range vocab.elements {
		for _, class := range ctx.Classes {
			if bemPattern.MatchString(class) {
				bem.add(class)
			}
		}
	}
	if bem.len() >= minBEMClasses {
		examples := bem.order
		if len(examples) > maxExamples {
			examples = examples[:maxExamples]
		}
		section.Methodologies = append(section.Methodologies, Detection{
			Name:       "BEM",
			Evidence:   bem.len(),
			Examples:   examples,
			Confidence: confidence.CountToConfidence(bem.len(), 4*minBEMClasses, minBEMClasses),
		})
	}

	return section, nil
}

// detectSignatures returns the detected signatures ranked by confidence, then
// evidence, then name.
func detectSignatures(signatures []Signature, vocab pageVocabulary) []Detection {
	var out []Detection
	for _, sig := range signatures {
		evidence, examples := sig.evidence(vocab)
		if evidence < sig.MinMatches || evidence == 0 {
			continue
		}
		level := sig.Strength
		if evidence >= 3*sig.MinMatches {
			level = confidence.High
		}
		out = append(out, Detection{Name: sig.Name, Evidence: evidence, Examples: examples, Confidence: level})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := confidence.Rank(out[i].Confidence), confidence.Rank(out[j].Confidence)
		if ri != rj {
			return ri > rj
		}
		if out[i].Evidence != out[j].Evidence {
			return out[i].Evidence > out[j].Evidence
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s Signature) evidence(vocab pageVocabulary) (int, []string) {
	count := 0
	var examples []string
	hit := func(example string) {
		count++
		examples = appendLimited(examples, maxExamples, example)
	}

	for _, ctx := range vocab.elements {
		for _, class := range ctx.Classes {
			if matchAnyRegexp(s.Classes, class) {
				hit("." + class)
			}
		}
		for _, name := range sortedKeys(ctx.Attributes) {
			value := ctx.Attributes[name]
			if containsString(s.Attributes, name) || hasAnyPrefix(name, s.AttributePrefixes) {
				hit("[" + name + "]")
				continue
			}
			if (name == "src" || name == "href") && containsAny(value, s.Assets) {
				hit(value)
			}
		}
		if ctx.ID != "" && matchAnyRegexp(s.IDs, ctx.ID) {
			hit("#" + ctx.ID)
		}
		if containsString(s.Tags, ctx.TagName) {
			hit(ctx.TagName)
		}
	}

	for _, class := range vocab.selectorClasses {
		if matchAnyRegexp(s.Classes, class) {
			hit("." + class)
		}
	}
	return count, examples
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func matchAnyRegexp(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// selectorClasses returns every class name in a selector list, unescaping
// backslash escapes such as ".hover\:bg-blue-500".
func selectorClasses(selectorText string) []string {
	var out []string
	for i := 0; i < len(selectorText); i++ {
		if selectorText[i] == '[' {
			// Attribute values may contain dots, e.g. [href$='.pdf'].
			if end := strings.IndexByte(selectorText[i:], ']'); end > 0 {
				i += end
			}
			continue
		}
		if selectorText[i] != '.' {
			continue
		}
		var sb strings.Builder
		j := i + 1
		for j < len(selectorText) {
			ch := selectorText[j]
			if ch == '\\' && j+1 < len(selectorText) {
				sb.WriteByte(selectorText[j+1])
				j += 2
				continue
			}
			if ch == '-' || ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch >= 0x80 {
				sb.WriteByte(ch)
				j++
				continue
			}
			break
		}
		// A dot followed by a digit is part of a number, e.g. "1.5".
		if name := sb.String(); name != "" && !(name[0] >= '0' && name[0] <= '9') {
			out = append(out, name)
		}
		i = j - 1
	}
	return out
}
