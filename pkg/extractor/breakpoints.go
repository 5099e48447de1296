package extractor

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

const (
	minBreakpoint = 320
	maxBreakpoint = 2560
)

// standardBreakpoints lists the widths common frameworks use for each name.
var standardBreakpoints = []struct {
	name   string
	widths []int
}{
	{"sm", []int{480, 576, 640}},
	{"md", []int{768, 800}},
	{"lg", []int{992, 1024}},
	{"xl", []int{1200, 1280}},
	{"2xl", []int{1400, 1536}},
}

// defaultBreakpoints are Tailwind's defaults, reported when a page has no media queries.
var defaultBreakpoints = []struct {
	name string
	px   int
}{
	{"sm", 640},
	{"md", 768},
	{"lg", 1024},
	{"xl", 1280},
}

var mediaPxPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)px`)

// ExtractBreakpoints reads pixel widths from @media preludes and maps them to
// named breakpoints.
func ExtractBreakpoints(snap snapshot.Snapshot, cfg Config) (*BreakpointSection, error) {
	var widths []int
	for _, rule := range snap.StylesheetRules() {
		if rule.AtRule != "@media" {
			continue
		}
		for _, m := range mediaPxPattern.FindAllStringSubmatch(rule.Prelude, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			// max-width: 767.98px is the same breakpoint as min-width: 768px.
			px := int(math.Round(v))
			if px >= minBreakpoint && px <= maxBreakpoint {
				widths = append(widths, px)
			}
		}
	}

	section := MapBreakpoints(widths, cfg.BreakpointTolerance, cfg.Confidence)
	return section, nil
}

// MapBreakpoints names detected widths. Each width is matched to the nearest
// standard breakpoint within tolerance and the most frequent width wins each
// name. Without any match the first five distinct widths are named in order;
// without any width the Tailwind defaults are returned.
func MapBreakpoints(widths []int, tolerance float64, conf confidence.Config) *BreakpointSection {
	section := &BreakpointSection{Breakpoints: make(map[string]Breakpoint)}

	hist := histogram(widths)
	distinct := make([]int, 0, len(hist))
	for v := range hist {
		distinct = append(distinct, v)
	}
	sort.Ints(distinct)
	if len(distinct) > 0 {
		section.Detected = distinct
	}

	if len(distinct) == 0 {
		for _, d := range defaultBreakpoints {
			section.Breakpoints[d.name] = Breakpoint{Value: strconv.Itoa(d.px) + "px", Px: d.px, Confidence: confidence.Low}
		}
		section.Source = "default"
		return section
	}

	for _, v := range distinct {
		name, ok := nearestStandard(v, tolerance)
		if !ok {
			continue
		}
		cur, seen := section.Breakpoints[name]
		if seen && hist[v] <= cur.Count {
			continue
		}
		section.Breakpoints[name] = Breakpoint{
			Value:      strconv.Itoa(v) + "px",
			Px:         v,
			Count:      hist[v],
			Confidence: conf.CountToConfidence(hist[v]),
		}
	}
	if len(section.Breakpoints) > 0 {
		section.Source = "matched"
		return section
	}

	for i, v := range distinct {
		if i >= len(standardBreakpoints) {
			break
		}
		section.Breakpoints[standardBreakpoints[i].name] = Breakpoint{
			Value:      strconv.Itoa(v) + "px",
			Px:         v,
			Count:      hist[v],
			Confidence: confidence.Low,
		}
	}
	section.Source = "detected"
	return section
}

func nearestStandard(px int, tolerance float64) (string, bool) {
	best, bestDist := "", math.Inf(1)
	for _, s := range standardBreakpoints {
		for _, w := range s.widths {
			if d := math.Abs(float64(px - w)); d < bestDist {
				best, bestDist = s.name, d
			}
		}
	}
	return best, bestDist <= tolerance
}
