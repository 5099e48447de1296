package extractor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

var spacingProperties = []string{
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"gap", "row-gap", "column-gap",
}

// spacingScale maps multiples of the base unit to scale names.
var spacingScale = []struct {
	multiple int
	name     string
}{
	{1, "xs"},
	{2, "sm"},
	{3, "md"},
	{4, "lg"},
	{6, "xl"},
	{8, "2xl"},
	{12, "3xl"},
	{16, "4xl"},
}

// paddingComponents are the element kinds whose typical padding is reported.
var paddingComponents = []string{kindButton, kindInput, kindCard, kindModal}

const maxSpacing = 500

// ExtractSpacing builds a histogram of margin, padding and gap values, detects
// the base grid unit and names the scale steps that actually occur.
func ExtractSpacing(snap snapshot.Snapshot, cfg Config) (*SpacingSection, error) {
	var values []int
	paddings := make(map[string]*counter, len(paddingComponents))
	for _, kind := range paddingComponents {
		paddings[kind] = newCounter()
	}

	for _, el := range snap.QueryAllVisible(snapshot.Any()) {
		for _, prop := range spacingProperties {
			for _, field := range strings.Fields(snap.ComputedStyle(el, prop)) {
				px, ok := parsePx(field)
				if !ok {
					continue
				}
				if v := int(px + 0.5); v > 0 && v < maxSpacing {
					values = append(values, v)
				}
			}
		}

		kind := classifyElement(snap.ElementContext(el))
		if c, ok := paddings[kind]; ok {
			top, okTop := parsePx(snap.ComputedStyle(el, "padding-top"))
			left, okLeft := parsePx(snap.ComputedStyle(el, "padding-left"))
			if okTop && okLeft && (top > 0 || left > 0) {
				c.add(formatPx(top) + " " + formatPx(left))
			}
		}
	}

	section := &SpacingSection{}
	if len(values) == 0 {
		return section, nil
	}

	base := DetectBaseUnit(values)
	section.BaseUnit = strconv.Itoa(base) + "px"
	section.Scale = SpacingScale(values, base, cfg.SpacingHighCount, cfg.SpacingMediumCount)

	hist := histogram(values)
	distinct := make([]int, 0, len(hist))
	for v := range hist {
		distinct = append(distinct, v)
	}
	sort.Ints(distinct)
	for _, v := range distinct {
		section.Values = append(section.Values, Token{
			Value:      strconv.Itoa(v) + "px",
			Count:      hist[v],
			Confidence: confidence.CountToConfidence(hist[v], cfg.SpacingHighCount, cfg.SpacingMediumCount),
		})
	}

	for _, kind := range paddingComponents {
		value, count := paddings[kind].mostCommon()
		if count == 0 {
			continue
		}
		if section.Components == nil {
			section.Components = make(map[string]Token)
		}
		section.Components[kind] = Token{
			Value:      value,
			Usage:      "padding",
			Count:      count,
			Confidence: confidence.CountToConfidence(count, cfg.SpacingHighCount, cfg.SpacingMediumCount),
		}
	}

	return section, nil
}

// DetectBaseUnit returns 8 when at least 70% of the values are multiples of 8
// and none is smaller than 8, and 4 otherwise.
func DetectBaseUnit(values []int) int {
	if len(values) == 0 {
		return 4
	}
	multiples := 0
	for _, v := range values {
		if v < 8 {
			return 4
		}
		if v%8 == 0 {
			multiples++
		}
	}
	if float64(multiples)/float64(len(values)) >= 0.7 {
		return 8
	}
	return 4
}

// SpacingScale names each multiple of base that occurs at least twice.
func SpacingScale(values []int, base, high, medium int) map[string]Token {
	hist := histogram(values)
	scale := make(map[string]Token)
	for _, step := range spacingScale {
		v := step.multiple * base
		count := hist[v]
		if count < 2 {
			continue
		}
		scale[step.name] = Token{
			Value:      strconv.Itoa(v) + "px",
			Usage:      strconv.Itoa(step.multiple) + "x",
			Count:      count,
			Confidence: confidence.CountToConfidence(count, high, medium),
		}
	}
	return scale
}

func histogram(values []int) map[int]int {
	hist := make(map[int]int, len(values))
	for _, v := range values {
		hist[v]++
	}
	return hist
}
