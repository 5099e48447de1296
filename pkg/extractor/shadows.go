package extractor

import (
	"math"
	"sort"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// ExtractShadows collects box-shadow values, orders them by elevation and maps
// the most used ones onto an sm/md/lg/xl scale.
func ExtractShadows(snap snapshot.Snapshot, cfg Config) (*ShadowSection, error) {
	values := newCounter()
	elevation := make(map[string]float64)

	for _, el := range snap.QueryAllVisible(snapshot.Any()) {
		raw := snap.ComputedStyle(el, "box-shadow")
		if raw == "" || strings.EqualFold(raw, "none") {
			continue
		}
		value := NormalizeShadow(raw)
		e, ok := ShadowElevation(value)
		if !ok {
			continue
		}
		elevation[value] = e
		values.add(value)
	}

	section := &ShadowSection{}
	for _, v := range values.order {
		count := values.count(v)
		section.All = append(section.All, ShadowToken{
			Value:      v,
			Elevation:  elevation[v],
			Count:      count,
			Confidence: cfg.Confidence.CountToConfidence(count),
		})
	}
	sortByElevation(section.All)

	var significant []ShadowToken
	for _, v := range values.ranked() {
		if len(significant) >= cfg.MaxShadows {
			break
		}
		count := values.count(v)
		level := cfg.Confidence.CountToConfidence(count)
		if level == confidence.Low {
			continue
		}
		significant = append(significant, ShadowToken{Value: v, Elevation: elevation[v], Count: count, Confidence: level})
	}
	sortByElevation(significant)
	section.Scale = ShadowScale(significant)

	return section, nil
}

func sortByElevation(tokens []ShadowToken) {
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Elevation != tokens[j].Elevation {
			return tokens[i].Elevation < tokens[j].Elevation
		}
		return tokens[i].Value < tokens[j].Value
	})
}

// ShadowScale distributes shadows sorted by ascending elevation over sm, md, lg
// and xl. Four or more shadows are sampled at their quartile positions; fewer
// use fixed assignments.
func ShadowScale(sorted []ShadowToken) map[string]ShadowToken {
	n := len(sorted)
	var names []string
	var idx []int
	switch {
	case n == 0:
		return nil
	case n == 1:
		names, idx = []string{"md"}, []int{0}
	case n == 2:
		names, idx = []string{"sm", "lg"}, []int{0, 1}
	case n == 3:
		names, idx = []string{"sm", "md", "lg"}, []int{0, 1, 2}
	default:
		names = []string{"sm", "md", "lg", "xl"}
		for i := range names {
			idx = append(idx, int(math.Round(float64(i*(n-1))/3)))
		}
	}

	scale := make(map[string]ShadowToken, len(names))
	for i, name := range names {
		scale[name] = sorted[idx[i]]
	}
	return scale
}

// NormalizeShadow collapses whitespace and removes it inside color functions,
// so "rgba(0, 0, 0, 0.1)  0px 1px" and "rgba(0,0,0,0.1) 0px 1px" group together.
func NormalizeShadow(s string) string {
	var sb strings.Builder
	depth := 0
	pendingSpace := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			if depth == 0 {
				pendingSpace = true
			}
			continue
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			sb.WriteRune(r)
			pendingSpace = true
			continue
		}
		if pendingSpace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pendingSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// ShadowElevation estimates how raised a shadow looks: y offset plus half the
// blur of the first non-inset layer. It fails when no offsets can be read.
func ShadowElevation(shadow string) (float64, bool) {
	layers := splitLayers(shadow)
	if len(layers) == 0 {
		return 0, false
	}
	layer := layers[0]
	for _, l := range layers {
		if !strings.Contains(" "+l+" ", " inset ") {
			layer = l
			break
		}
	}

	var lengths []float64
	for _, tok := range strings.Fields(stripFunctions(layer)) {
		if tok == "inset" {
			continue
		}
		if px, ok := parsePx(tok); ok {
			lengths = append(lengths, px)
			if len(lengths) == 3 {
				break
			}
		}
	}
	if len(lengths) < 2 {
		return 0, false
	}
	blur := 0.0
	if len(lengths) == 3 {
		blur = lengths[2]
	}
	return lengths[1] + blur/2, true
}

// splitLayers splits a shadow list on top-level commas.
func splitLayers(s string) []string {
	var layers []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				layers = append(layers, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		layers = append(layers, last)
	}
	return layers
}

// stripFunctions replaces every parenthesized function call with a space.
func stripFunctions(s string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				sb.WriteByte(' ')
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
